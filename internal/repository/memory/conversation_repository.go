package memory

import (
	"company-research-be/internal/entity"
	"company-research-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps conversations in process memory. Entries never
// expire, so conversations live for the process lifetime.
type ConversationRepository struct {
	cache *cache.Cache
}

var _ contract.ConversationStore = &ConversationRepository{}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *ConversationRepository) Save(conversation *entity.Conversation) {
	r.cache.Set(conversation.Id, conversation, cache.DefaultExpiration)
}

func (r *ConversationRepository) Get(id string) (*entity.Conversation, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.Conversation), true
	}
	return nil, false
}

func (r *ConversationRepository) Delete(id string) {
	r.cache.Delete(id)
}
