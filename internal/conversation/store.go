package conversation

import (
	"slices"
	"sync"
	"time"

	"ctxchat/internal/scope"
)

// Store owns the conversation state. All mutation goes through it, so
// the TUI and the controller's background submit never race. Messages
// are append-only; only ResolveAccess rewrites an existing entry.
type Store struct {
	mu       sync.RWMutex
	nextID   int64
	messages []Message
	pendings []Pending
}

// NewStore returns an empty conversation.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Append adds a message, assigning its ID and timestamp, and returns it.
func (s *Store) Append(role Role, content string, access scope.Access) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        s.nextID,
		Role:      role,
		Content:   content,
		Access:    access.Clone(),
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg
}

// Messages returns a copy of the conversation, triples included.
func (s *Store) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		m.Access = m.Access.Clone()
		out[i] = m
	}
	return out
}

// Message looks up a single message by ID.
func (s *Store) Message(id int64) (Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.messages {
		if m.ID == id {
			m.Access = m.Access.Clone()
			return m, true
		}
	}
	return Message{}, false
}

// Len reports the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// AddPending registers a permission prompt for a message. A message has
// at most one pending entry; a second registration replaces the first.
func (s *Store) AddPending(p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.pendings {
		if existing.MessageID == p.MessageID {
			s.pendings[i] = p
			return
		}
	}
	s.pendings = append(s.pendings, p)
}

// PendingFor returns the pending entry for a message, if any.
func (s *Store) PendingFor(id int64) (Pending, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.pendings {
		if p.MessageID == id {
			return p, true
		}
	}
	return Pending{}, false
}

// Pendings returns all open permission prompts in registration order.
func (s *Store) Pendings() []Pending {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pendings)
}

// RemovePending drops the pending entry for a message. Removing an
// absent entry is a no-op.
func (s *Store) RemovePending(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendings = slices.DeleteFunc(s.pendings, func(p Pending) bool {
		return p.MessageID == id
	})
}

// ResolveAccess rewrites a message's access triple through fn. It
// reports whether the message exists.
func (s *Store) ResolveAccess(id int64, fn func(*scope.Access)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.messages {
		if s.messages[i].ID == id {
			fn(&s.messages[i].Access)
			return true
		}
	}
	return false
}

// Reset discards all messages and pending entries. Message IDs keep
// increasing so an ID never refers to two different messages, even
// across a clear.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.pendings = nil
}
