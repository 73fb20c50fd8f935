// Package classify maps free-text user input to a canned assistant
// response via ordered keyword rules. It is a deterministic stand-in for
// a model call: the interesting part is not the matching but the context
// access triple each response carries.
package classify

import (
	"strings"
	"sync"

	"ctxchat/internal/scope"
)

// Response is one canned assistant answer.
type Response struct {
	// ID names the response for rule lookup.
	ID string
	// Body is the markdown shown to the user.
	Body string
	// Access is the triple attached to the answer.
	Access scope.Access
	// FollowUp is the markdown used once a requested scope has been
	// granted, either interactively or by policy. Empty for responses
	// that request nothing.
	FollowUp string
}

// Rule matches input against keywords, in the order the rules are listed.
type Rule struct {
	Keywords []string
	Response string
}

// Classifier evaluates rules in fixed priority order against lowercased
// input. An optional policy resolves scope requests that the session has
// already answered.
type Classifier struct {
	mu        sync.RWMutex
	rules     []Rule
	responses map[string]Response
	defaultID string
	policy    *scope.Policy
}

// New builds a classifier from a rule set. The rule set is assumed
// validated (see RuleSet.Validate).
func New(rs *RuleSet, policy *scope.Policy) *Classifier {
	c := &Classifier{policy: policy}
	c.swap(rs)
	return c
}

// Default builds a classifier over the embedded rule table.
func Default(policy *scope.Policy) *Classifier {
	return New(DefaultRules(), policy)
}

// Reload swaps in a new rule set atomically.
func (c *Classifier) Reload(rs *RuleSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swap(rs)
}

func (c *Classifier) swap(rs *RuleSet) {
	c.rules = rs.Rules
	c.responses = make(map[string]Response, len(rs.Responses))
	for id, r := range rs.Responses {
		r.ID = id
		c.responses[id] = r
	}
	c.defaultID = rs.Default
}

// Classify returns the response for the input. It always returns a value;
// unmatched input gets the default response. The returned triple is a
// copy the caller may mutate.
func (c *Classifier) Classify(input string) Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lowered := strings.ToLower(input)
	id := c.defaultID
	for _, rule := range c.rules {
		if matches(lowered, rule.Keywords) {
			id = rule.Response
			break
		}
	}

	resp := c.responses[id]
	resp.Access = resp.Access.Clone()
	if c.policy != nil && resp.Access.HasRequests() {
		resp = c.applyPolicy(resp)
	}
	return resp
}

// applyPolicy settles requested scopes the session already has answers
// for. Scopes granted by policy move to allowed, refused ones to denied,
// and only genuinely undecided scopes stay requested. When every request
// was granted the follow-up body replaces the asking body.
func (c *Classifier) applyPolicy(resp Response) Response {
	granted, refused, prompt := c.policy.Split(resp.Access.Requested)

	resp.Access.Allowed = append(resp.Access.Allowed, granted...)
	resp.Access.Denied = append(resp.Access.Denied, refused...)
	resp.Access.Requested = prompt

	if len(prompt) == 0 && len(refused) == 0 && len(granted) > 0 && resp.FollowUp != "" {
		resp.Body = resp.FollowUp
	}
	return resp
}

func matches(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
