package commands

import (
	"classifieds-core/internal/domain/conversation"
)

// StartConversationCommand opens (or reuses) the conversation between two users.
type StartConversationCommand struct {
	InitiatorID string
	OtherUserID string
	ListingID   *string
}

func (c StartConversationCommand) CommandType() string {
	return "conversation.start"
}

func (c StartConversationCommand) Validate() error {
	_, err := c.Key()
	return err
}

func (c StartConversationCommand) Key() (conversation.Key, error) {
	return conversation.ResolveKey(c.InitiatorID, c.OtherUserID, c.ListingID)
}
