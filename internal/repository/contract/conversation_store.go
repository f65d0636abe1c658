package contract

import (
	"errors"

	"company-research-be/internal/entity"
)

// ErrConversationNotFound is the typed not-found outcome for unknown ids.
// Boundary layers render it as a 404; it is never a panic.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationStore abstracts conversation persistence so the in-memory
// default can be swapped for an expiring cache or external store without
// touching the research core.
type ConversationStore interface {
	Save(conversation *entity.Conversation)
	Get(id string) (*entity.Conversation, bool)
	Delete(id string)
}
