package commands

import (
	"strings"
	"unicode/utf8"

	"classifieds-core/internal/domain/conversation"
	market_errors "classifieds-core/pkg/errors"
)

// AppendMessageCommand adds a message to an existing conversation.
type AppendMessageCommand struct {
	ConversationID string
	SenderID       string
	Body           string
}

func (c AppendMessageCommand) CommandType() string {
	return "message.append"
}

func (c AppendMessageCommand) Validate() error {
	return validateBody(c.Body)
}

// SendMessageCommand messages a user directly, creating the conversation on first contact.
type SendMessageCommand struct {
	SenderID    string
	RecipientID string
	ListingID   *string
	Body        string
}

func (c SendMessageCommand) CommandType() string {
	return "message.send"
}

func (c SendMessageCommand) Validate() error {
	if err := validateBody(c.Body); err != nil {
		return err
	}
	_, err := c.Key()
	return err
}

func (c SendMessageCommand) Key() (conversation.Key, error) {
	return conversation.ResolveKey(c.SenderID, c.RecipientID, c.ListingID)
}

// NormalizeBody trims surrounding whitespace; the stored body is always normalized.
func NormalizeBody(body string) string {
	return strings.TrimSpace(body)
}

func validateBody(body string) error {
	trimmed := NormalizeBody(body)
	if trimmed == "" {
		return market_errors.ErrEmptyBody
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageBodyRunes {
		return market_errors.InvalidInput("message body is too long")
	}
	return nil
}
