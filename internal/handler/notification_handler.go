package handler

import (
	"net/http"
	"strconv"

	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	var onlyUnread *bool
	if raw := c.Query("unread"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid unread")
			return
		}
		onlyUnread = &v
	}

	items, err := h.service.List(c.Request.Context(), caller.ID, onlyUnread, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromNotifications(items)))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	n, err := h.service.UnreadCount(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadCountResponse{Count: n}))
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	n, err := h.service.MarkRead(c.Request.Context(), caller.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkMessagesResponse{Updated: n}))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	n, err := h.service.MarkAllRead(c.Request.Context(), caller.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkMessagesResponse{Updated: n}))
}
