// Package conversation holds the in-memory chat state: the append-only
// message list, the pending permission prompts, and the controller that
// drives the submit/approve/deny flow. Nothing here is persisted; the
// conversation dies with the process.
package conversation

import (
	"time"

	"ctxchat/internal/scope"
)

// Role distinguishes who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat entry. IDs are unique and increase
// monotonically within a conversation. The access triple is rewritten
// exactly once, when a pending permission prompt is resolved.
type Message struct {
	ID        int64
	Role      Role
	Content   string
	Access    scope.Access
	CreatedAt time.Time
}

// Pending pairs an assistant message with the scopes it is asking for.
// It exists only between the request and the user's decision. FollowUp
// carries the body used for the answer if the user approves.
type Pending struct {
	MessageID int64
	Scopes    []scope.Scope
	FollowUp  string
}
