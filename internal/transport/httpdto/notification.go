package httpdto

import (
	"encoding/json"
	"time"

	"classifieds-core/internal/domain/notification"
)

type NotificationDTO struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	IsRead    bool            `json:"isRead"`
	CreatedAt time.Time       `json:"createdAt"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

func FromNotifications(items []notification.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		payload := json.RawMessage(n.Payload)
		if len(payload) == 0 {
			payload = json.RawMessage("{}")
		}
		out = append(out, NotificationDTO{
			ID:        n.ID,
			Type:      string(n.Type),
			Payload:   payload,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
