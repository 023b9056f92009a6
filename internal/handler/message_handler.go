package handler

import (
	"net/http"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Send handles POST /v1/messages.
func (h *MessageHandler) Send(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	msg, err := h.service.Send(c.Request.Context(), commands.SendMessageCommand{
		SenderID:    caller.ID,
		RecipientID: req.RecipientID,
		ListingID:   req.ListingID,
		Body:        req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

// Append handles POST /v1/conversations/:id/messages.
func (h *MessageHandler) Append(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req httpdto.AppendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	msg, err := h.service.Append(c.Request.Context(), commands.AppendMessageCommand{
		ConversationID: c.Param("id"),
		SenderID:       caller.ID,
		Body:           req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) List(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	after, err := services.ParseSeqCursor(c.Query("after"))
	if err != nil {
		respondError(c, err)
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), c.Param("id"), caller.ID, after, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessagePage(page)))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	n, err := h.service.MarkRead(c.Request.Context(), c.Param("id"), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkMessagesResponse{Updated: n}))
}

func (h *MessageHandler) MarkDelivered(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	n, err := h.service.MarkDelivered(c.Request.Context(), c.Param("id"), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkMessagesResponse{Updated: n}))
}
