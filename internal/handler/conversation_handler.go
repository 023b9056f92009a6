package handler

import (
	"net/http"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
}

func NewConversationHandler(service *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

func (h *ConversationHandler) Start(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req httpdto.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	conv, err := h.service.Start(c.Request.Context(), commands.StartConversationCommand{
		InitiatorID: caller.ID,
		OtherUserID: req.OtherUserID,
		ListingID:   req.ListingID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv)))
}

func (h *ConversationHandler) List(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	page, err := h.service.ListForUser(c.Request.Context(), caller.ID, c.Query("cursor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversationPage(page)))
}

func (h *ConversationHandler) Get(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	conv, err := h.service.Get(c.Request.Context(), c.Param("id"), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(conv)))
}
