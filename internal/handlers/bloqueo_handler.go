package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/httpresp"
	"github.com/BruksfildServices01/barberia/internal/usecase/bloqueo"
)

type BloqueoHandler struct {
	create *bloqueo.CreateBloqueo
	delete *bloqueo.DeleteBloqueo
	list   *bloqueo.ListBloqueos
}

func NewBloqueoHandler(
	create *bloqueo.CreateBloqueo,
	del *bloqueo.DeleteBloqueo,
	list *bloqueo.ListBloqueos,
) *BloqueoHandler {
	return &BloqueoHandler{create: create, delete: del, list: list}
}

type CreateBloqueoRequest struct {
	BarberID  *uint  `json:"barber_id"`
	BranchID  *uint  `json:"branch_id"`
	Date      string `json:"date" binding:"required"`
	FullDay   bool   `json:"full_day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}

func (h *BloqueoHandler) List(c *gin.Context) {
	barberID, ok := optionalUint(c, "barber_id")
	if !ok {
		return
	}

	out, err := h.list.Execute(c.Request.Context(), actorFrom(c), barberID, c.Query("from"), c.Query("to"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_bloqueos")
		return
	}

	httpresp.List(c, out)
}

func (h *BloqueoHandler) Create(c *gin.Context) {
	var req CreateBloqueoRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.create.Execute(c.Request.Context(), bloqueo.CreateInput{
		Actor:     actorFrom(c),
		BarberID:  req.BarberID,
		BranchID:  req.BranchID,
		Day:       req.Date,
		FullDay:   req.FullDay,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_bloqueo")
		return
	}

	c.JSON(http.StatusCreated, b)
}

func (h *BloqueoHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actorFrom(c), id); err != nil {
		httperr.Respond(c, err, "failed_to_delete_bloqueo")
		return
	}

	c.Status(http.StatusNoContent)
}
