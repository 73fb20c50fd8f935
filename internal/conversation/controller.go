package conversation

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ctxchat/internal/classify"
	"ctxchat/internal/scope"
)

// Sentinel errors for the controller's guarded paths. The UI swallows
// all three silently; they exist so tests and non-interactive callers
// can tell the no-ops apart.
var (
	ErrEmptyInput = errors.New("empty input")
	ErrBusy       = errors.New("a submission is already in flight")
	ErrNoPending  = errors.New("no pending permission for message")
)

// DefaultDelay is the simulated assistant latency.
const DefaultDelay = 1500 * time.Millisecond

// Controller drives the conversation: it appends user input, simulates
// assistant latency, classifies, and mediates permission prompts through
// the scope policy. Safe for concurrent use; Submit is expected to run
// on a background goroutine while Approve and Deny arrive from the UI
// event loop.
type Controller struct {
	store      *Store
	classifier *classify.Classifier
	policy     *scope.Policy
	logger     *zap.Logger
	delay      time.Duration
	busy       atomic.Bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay overrides the simulated assistant latency.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController wires a controller over its store, classifier and
// policy. A nil policy gets a fresh one with an empty ledger.
func NewController(store *Store, classifier *classify.Classifier, policy *scope.Policy, opts ...Option) *Controller {
	if policy == nil {
		policy = scope.NewPolicy(nil, nil, nil)
	}
	c := &Controller{
		store:      store,
		classifier: classifier,
		policy:     policy,
		logger:     zap.NewNop(),
		delay:      DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store exposes the conversation store for rendering.
func (c *Controller) Store() *Store { return c.store }

// Policy exposes the scope policy and its session ledger.
func (c *Controller) Policy() *scope.Policy { return c.policy }

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool { return c.busy.Load() }

// Submit processes one user turn: append the user message, wait the
// simulated latency, classify, append the assistant message, and open a
// permission prompt if the answer still requests scopes after the
// policy pass. Whitespace-only input and submissions while one is in
// flight are rejected before anything is appended. Cancelling the
// context during the simulated latency abandons the turn: the user
// message stays, no assistant message is appended.
func (c *Controller) Submit(ctx context.Context, text string) (Message, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return Message{}, ErrEmptyInput
	}
	if !c.busy.CompareAndSwap(false, true) {
		return Message{}, ErrBusy
	}
	defer c.busy.Store(false)

	c.store.Append(RoleUser, input, scope.Access{})

	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		c.logger.Debug("submission cancelled", zap.Error(ctx.Err()))
		return Message{}, ctx.Err()
	case <-timer.C:
	}

	resp := c.classifier.Classify(input)
	msg := c.store.Append(RoleAssistant, resp.Body, resp.Access)

	if resp.Access.HasRequests() {
		c.store.AddPending(Pending{
			MessageID: msg.ID,
			Scopes:    resp.Access.Requested,
			FollowUp:  resp.FollowUp,
		})
		c.logger.Info("permission requested",
			zap.Int64("message_id", msg.ID),
			zap.Any("scopes", resp.Access.Requested))
	}

	c.logger.Debug("turn complete",
		zap.Int64("message_id", msg.ID),
		zap.String("response", resp.ID))
	return msg, nil
}

// Approve resolves a permission prompt in the user's favor: the grant is
// recorded in the session ledger, the requesting message's triple moves
// its requested scopes to allowed, and the assistant's follow-up answer
// is appended. Approving a message with no pending entry is a no-op.
func (c *Controller) Approve(id int64) (Message, error) {
	p, ok := c.store.PendingFor(id)
	if !ok {
		return Message{}, ErrNoPending
	}
	c.store.RemovePending(id)
	c.policy.Ledger().Grant(p.Scopes...)

	c.store.ResolveAccess(id, func(a *scope.Access) {
		a.Allowed = append(a.Allowed, a.Requested...)
		a.Requested = nil
	})

	body := p.FollowUp
	if body == "" {
		body = "Thanks, access granted. I'll use that context from now on."
	}
	msg := c.store.Append(RoleAssistant, body, scope.Access{Allowed: p.Scopes})

	c.logger.Info("permission approved",
		zap.Int64("message_id", id),
		zap.Any("scopes", p.Scopes))
	return msg, nil
}

// Deny resolves a permission prompt against the assistant: the denial is
// recorded in the ledger and the requesting message's triple moves its
// requested scopes to denied. No new message is appended. Denying a
// message with no pending entry is a no-op.
func (c *Controller) Deny(id int64) error {
	p, ok := c.store.PendingFor(id)
	if !ok {
		return ErrNoPending
	}
	c.store.RemovePending(id)
	c.policy.Ledger().Deny(p.Scopes...)

	c.store.ResolveAccess(id, func(a *scope.Access) {
		a.Denied = append(a.Denied, a.Requested...)
		a.Requested = nil
	})

	c.logger.Info("permission denied",
		zap.Int64("message_id", id),
		zap.Any("scopes", p.Scopes))
	return nil
}

// Reset clears the conversation and the session ledger, as if the demo
// had been restarted.
func (c *Controller) Reset() {
	c.store.Reset()
	c.policy.Ledger().Reset()
	c.logger.Debug("conversation reset")
}
