package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberia/internal/domain/appointment"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/stats"
	"github.com/BruksfildServices01/barberia/internal/timezone"
)

type StatsHandler struct {
	repo     domain.Repository
	reporter *stats.Reporter
	log      *zap.Logger
}

func NewStatsHandler(repo domain.Repository, reporter *stats.Reporter, log *zap.Logger) *StatsHandler {
	return &StatsHandler{repo: repo, reporter: reporter, log: log}
}

func (h *StatsHandler) Get(c *gin.Context) {
	actor := actorFrom(c)

	branchID, ok := optionalUint(c, "branch_id")
	if !ok {
		return
	}

	shop, err := h.repo.GetBarbershopByID(c.Request.Context(), actor.BarbershopID)
	if err != nil {
		httperr.Respond(c, err, "failed_to_get_barbershop")
		return
	}

	// padrão: mês corrente até hoje
	now := timezone.NowIn(shop.Timezone)
	fromStr := c.DefaultQuery("from", now.AddDate(0, 0, 1-now.Day()).Format(timezone.DateLayout))
	toStr := c.DefaultQuery("to", now.Format(timezone.DateLayout))

	from, to, err := stats.ParseRange(shop.Timezone, fromStr, toStr)
	if err != nil {
		httperr.Respond(c, err, "invalid_range")
		return
	}

	report, err := h.reporter.Report(c.Request.Context(), stats.Query{
		BarbershopID: actor.BarbershopID,
		BranchID:     branchID,
		From:         from,
		To:           to,
	})
	if err != nil {
		h.log.Error("stats report failed", zap.Uint("barbershop_id", actor.BarbershopID), zap.Error(err))
		httperr.Internal(c, "failed_to_get_stats", "Error al calcular las estadísticas.")
		return
	}

	c.JSON(http.StatusOK, report)
}
