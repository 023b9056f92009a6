package httpdto

import (
	"time"

	"classifieds-core/internal/domain/conversation"
	"classifieds-core/internal/services"
)

type StartConversationRequest struct {
	OtherUserID string  `json:"otherUserId" binding:"required"`
	ListingID   *string `json:"listingId"`
}

type ConversationDTO struct {
	ID             string    `json:"id"`
	Participants   [2]string `json:"participants"`
	ListingID      *string   `json:"listingId"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

type ConversationSummaryDTO struct {
	ID                 string    `json:"id"`
	OtherParticipantID string    `json:"otherParticipantId"`
	ListingID          *string   `json:"listingId"`
	LastActivityAt     time.Time `json:"lastActivityAt"`
}

type ListConversationsResponse struct {
	Conversations []ConversationSummaryDTO `json:"conversations"`
	NextCursor    string                   `json:"nextCursor,omitempty"`
}

func FromConversation(c conversation.Conversation) ConversationDTO {
	return ConversationDTO{
		ID:             c.ID,
		Participants:   [2]string{c.LowUserID, c.HighUserID},
		ListingID:      c.ListingID,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		LastActivityAt: c.LastActivityAt,
	}
}

func FromConversationPage(p services.CursorPage[services.ConversationSummary]) ListConversationsResponse {
	out := ListConversationsResponse{
		Conversations: make([]ConversationSummaryDTO, 0, len(p.Items)),
		NextCursor:    p.NextCursor,
	}
	for _, s := range p.Items {
		out.Conversations = append(out.Conversations, ConversationSummaryDTO{
			ID:                 s.ID,
			OtherParticipantID: s.OtherParticipantID,
			ListingID:          s.ListingID,
			LastActivityAt:     s.LastActivityAt,
		})
	}
	return out
}
