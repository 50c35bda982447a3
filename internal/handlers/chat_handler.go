package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barberia/internal/domain/chat"
	"github.com/BruksfildServices01/barberia/internal/httperr"
	"github.com/BruksfildServices01/barberia/internal/httpresp"
	"github.com/BruksfildServices01/barberia/internal/usecase/chat"
)

// ChatHandler é o inbox de WhatsApp da equipe.
type ChatHandler struct {
	inbox *chat.Inbox
	send  *chat.SendMessage
}

func NewChatHandler(inbox *chat.Inbox, send *chat.SendMessage) *ChatHandler {
	return &ChatHandler{inbox: inbox, send: send}
}

type SendMessageRequest struct {
	Body string `json:"body"`
}

type ArchiveRequest struct {
	Archived *bool `json:"archived"`
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	page, limit, offset := httpresp.Pagination(c)
	unread, _ := strconv.ParseBool(c.Query("unread"))
	archived, _ := strconv.ParseBool(c.Query("archived"))

	out, total, err := h.inbox.ListConversations(c.Request.Context(), domain.ConversationFilter{
		BarbershopID: actorFrom(c).BarbershopID,
		Query:        c.Query("query"),
		UnreadOnly:   unread,
		Archived:     archived,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_conversations")
		return
	}

	httpresp.Page(c, out, page, limit, total)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	before, _ := strconv.ParseUint(c.Query("before"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	out, err := h.inbox.ListMessages(c.Request.Context(), actorFrom(c).BarbershopID, id, uint(before), limit)
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_messages")
		return
	}

	httpresp.List(c, out)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := actorFrom(c)
	msg, err := h.send.Execute(c.Request.Context(), actor.BarbershopID, actor.UserID, id, req.Body)
	if err != nil {
		httperr.Respond(c, err, "failed_to_send_message")
		return
	}

	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	conv, err := h.inbox.MarkRead(c.Request.Context(), actorFrom(c).BarbershopID, id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_mark_read")
		return
	}

	c.JSON(http.StatusOK, conv)
}

// Archive arquiva por padrão; {"archived": false} desarquiva.
func (h *ChatHandler) Archive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ArchiveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	archived := true
	if req.Archived != nil {
		archived = *req.Archived
	}

	conv, err := h.inbox.SetArchived(c.Request.Context(), actorFrom(c).BarbershopID, id, archived)
	if err != nil {
		httperr.Respond(c, err, "failed_to_archive_conversation")
		return
	}

	c.JSON(http.StatusOK, conv)
}
