package httpdto

import (
	"time"

	"classifieds-core/internal/domain/message"
	"classifieds-core/internal/services"
)

type SendMessageRequest struct {
	RecipientID string  `json:"recipientId" binding:"required"`
	ListingID   *string `json:"listingId"`
	Body        string  `json:"body"`
}

type AppendMessageRequest struct {
	Body string `json:"body"`
}

type MessageDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Body           string    `json:"body"`
	Seq            int64     `json:"seq"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ListMessagesResponse struct {
	Messages   []MessageDTO `json:"messages"`
	NextCursor string       `json:"nextCursor,omitempty"`
}

type MarkMessagesResponse struct {
	Updated int64 `json:"updated"`
}

func FromMessage(m message.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		Seq:            m.Seq,
		Status:         string(m.Status),
		CreatedAt:      m.CreatedAt,
	}
}

func FromMessagePage(p services.CursorPage[message.Message]) ListMessagesResponse {
	out := ListMessagesResponse{Messages: make([]MessageDTO, 0, len(p.Items)), NextCursor: p.NextCursor}
	for _, m := range p.Items {
		out.Messages = append(out.Messages, FromMessage(m))
	}
	return out
}
