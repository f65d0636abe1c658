package entity

import (
	"sync"
	"time"
)

// ChatTurn is one user/assistant exchange. The assistant value may be a
// serialized chart-request payload rather than prose; consumers must be
// prepared to detect and parse that.
type ChatTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// Conflict is a detected discrepancy between sources, queued for optional
// deep-dive resolution
type Conflict struct {
	Topic         string `json:"topic"`
	Details       string `json:"details"`
	NeedsDeepDive bool   `json:"needs_deep_dive"`
}

// Conversation is one research session: a plan, its transcript, and the
// pending conflict queue. All mutators take the conversation mutex, so
// concurrent chat and edit requests against the same id are race-free.
type Conversation struct {
	Id        string
	Plan      *AccountPlan
	CreatedAt time.Time

	mu        sync.Mutex
	history   []ChatTurn
	conflicts []Conflict
}

func NewConversation(id string, plan *AccountPlan, conflicts []Conflict) *Conversation {
	return &Conversation{
		Id:        id,
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
		conflicts: conflicts,
	}
}

// AppendTurn records one exchange at the end of the transcript
func (c *Conversation) AppendTurn(user, assistant string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, ChatTurn{User: user, Assistant: assistant})
}

// SeedHistory replaces the transcript; used once, right after creation, to
// install the pipeline narration turns
func (c *Conversation) SeedHistory(turns []ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = turns
}

// History returns a copy of the transcript
func (c *Conversation) History() []ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatTurn, len(c.history))
	copy(out, c.history)
	return out
}

// HistoryLen reports the number of recorded turns
func (c *Conversation) HistoryLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.history)
}

// PendingConflicts reports how many conflicts remain unresolved
func (c *Conversation) PendingConflicts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.conflicts)
}

// PopConflict removes and returns the oldest unresolved conflict
func (c *Conversation) PopConflict() (Conflict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.conflicts) == 0 {
		return Conflict{}, false
	}
	head := c.conflicts[0]
	c.conflicts = c.conflicts[1:]
	return head, true
}

// FirstConflict peeks at the oldest unresolved conflict without removing it
func (c *Conversation) FirstConflict() (Conflict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.conflicts) == 0 {
		return Conflict{}, false
	}
	return c.conflicts[0], true
}

// EditSection replaces the content of the display section with the exact
// matching title and records an audit turn. The section list is the single
// source of truth; narrative fields are not re-synced after an edit.
func (c *Conversation) EditSection(title, content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	section := c.Plan.Section(title)
	if section == nil {
		return false
	}
	section.Content = content

	c.history = append(c.history, ChatTurn{
		User:      "System Edit: Update '" + title + "'",
		Assistant: "The section '" + title + "' has been updated with the new content.",
	})
	return true
}
