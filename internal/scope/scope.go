// Package scope defines the context-scope vocabulary an assistant may
// draw on, the allowed/requested/denied access triple attached to each
// assistant answer, and the session ledger of user grant decisions.
package scope

import "slices"

// Scope identifies a category of user context.
type Scope string

// Known scope vocabulary.
const (
	PreferencesShopping      Scope = "preferences.shopping"
	PreferencesNews          Scope = "preferences.news"
	PreferencesEntertainment Scope = "preferences.entertainment"
	BehavioralPatterns       Scope = "behavioral_patterns"
	PurchaseHistory          Scope = "purchase_history"
	Location                 Scope = "location"
)

// All returns the known scope vocabulary in display order.
func All() []Scope {
	return []Scope{
		PreferencesShopping,
		PreferencesNews,
		PreferencesEntertainment,
		BehavioralPatterns,
		PurchaseHistory,
		Location,
	}
}

// Access is the triple attached to an assistant message: which scopes were
// used to produce the answer, which the assistant wants but does not yet
// have, and which the user refused.
type Access struct {
	Allowed   []Scope `json:"allowed,omitempty" yaml:"allowed,omitempty"`
	Requested []Scope `json:"requested,omitempty" yaml:"requested,omitempty"`
	Denied    []Scope `json:"denied,omitempty" yaml:"denied,omitempty"`
}

// Clone returns a deep copy so callers can hand out triples without
// aliasing the conversation store's slices.
func (a Access) Clone() Access {
	return Access{
		Allowed:   slices.Clone(a.Allowed),
		Requested: slices.Clone(a.Requested),
		Denied:    slices.Clone(a.Denied),
	}
}

// IsZero reports whether the triple carries no scopes at all.
func (a Access) IsZero() bool {
	return len(a.Allowed) == 0 && len(a.Requested) == 0 && len(a.Denied) == 0
}

// HasRequests reports whether the assistant is still asking for scopes.
func (a Access) HasRequests() bool {
	return len(a.Requested) > 0
}

// Equal compares two triples field by field.
func (a Access) Equal(b Access) bool {
	return slices.Equal(a.Allowed, b.Allowed) &&
		slices.Equal(a.Requested, b.Requested) &&
		slices.Equal(a.Denied, b.Denied)
}
