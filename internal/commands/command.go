package commands

// Command is a validated service input. Validate never touches storage.
type Command interface {
	CommandType() string
	Validate() error
}

const (
	MaxMessageBodyRunes      = 4000
	MinDescriptionRunes      = 10
	MinOtherDescriptionRunes = 20
	MaxDescriptionRunes      = 2000
	MaxResolutionNoteRunes   = 1000
)
