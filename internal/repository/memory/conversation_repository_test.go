package memory

import (
	"testing"

	"company-research-be/internal/entity"
)

func newStoredConversation(t *testing.T, repo *ConversationRepository) *entity.Conversation {
	t.Helper()
	plan := &entity.AccountPlan{
		CompanyName: "Acme Corp",
		Sections: []*entity.CompanySection{
			{Title: "Risks", Content: "original risks"},
		},
	}
	conversation := entity.NewConversation("conv-1", plan, nil)
	repo.Save(conversation)
	return conversation
}

func TestSaveAndGet(t *testing.T) {
	repo := NewConversationRepository()
	stored := newStoredConversation(t, repo)

	got, found := repo.Get("conv-1")
	if !found {
		t.Fatal("Get(conv-1) not found after Save")
	}
	if got != stored {
		t.Error("Get returned a different conversation instance")
	}

	if _, found := repo.Get("xyz"); found {
		t.Error("Get(xyz) found = true, want false")
	}
}

func TestDelete(t *testing.T) {
	repo := NewConversationRepository()
	newStoredConversation(t, repo)

	repo.Delete("conv-1")
	if _, found := repo.Get("conv-1"); found {
		t.Error("conversation still present after Delete")
	}
}

func TestEditSectionOnStoredConversation(t *testing.T) {
	repo := NewConversationRepository()
	newStoredConversation(t, repo)

	conversation, _ := repo.Get("conv-1")

	if ok := conversation.EditSection("Risks", "updated risks"); !ok {
		t.Fatal("EditSection on existing title returned false")
	}
	if got := conversation.Plan.Section("Risks").Content; got != "updated risks" {
		t.Errorf("section content = %q, want updated", got)
	}
	if conversation.HistoryLen() != 1 {
		t.Errorf("history length = %d, want 1 audit turn", conversation.HistoryLen())
	}
	turn := conversation.History()[0]
	if turn.User != "System Edit: Update 'Risks'" {
		t.Errorf("audit user turn = %q", turn.User)
	}
	if turn.Assistant != "The section 'Risks' has been updated with the new content." {
		t.Errorf("audit assistant turn = %q", turn.Assistant)
	}

	// Unknown title leaves state untouched
	if ok := conversation.EditSection("No Such Section", "x"); ok {
		t.Error("EditSection on unknown title returned true")
	}
	if conversation.HistoryLen() != 1 {
		t.Errorf("history length = %d after failed edit, want 1", conversation.HistoryLen())
	}
}
