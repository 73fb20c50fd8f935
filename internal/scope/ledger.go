package scope

import (
	"slices"
	"sync"
)

// Outcome records how the user answered a scope request.
type Outcome string

const (
	OutcomeGranted Outcome = "granted"
	OutcomeDenied  Outcome = "denied"
)

// Ledger is the in-memory record of grant decisions made during this
// session. It is never written to disk; a new session starts blank.
type Ledger struct {
	mu       sync.RWMutex
	outcomes map[Scope]Outcome
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{outcomes: make(map[Scope]Outcome)}
}

// Grant records the user approving access to the given scopes. A grant
// overrides an earlier denial of the same scope.
func (l *Ledger) Grant(scopes ...Scope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range scopes {
		l.outcomes[s] = OutcomeGranted
	}
}

// Deny records the user refusing access to the given scopes.
func (l *Ledger) Deny(scopes ...Scope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range scopes {
		l.outcomes[s] = OutcomeDenied
	}
}

// Granted reports whether the scope was approved earlier this session.
func (l *Ledger) Granted(s Scope) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.outcomes[s] == OutcomeGranted
}

// Denied reports whether the scope was refused earlier this session.
func (l *Ledger) Denied(s Scope) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.outcomes[s] == OutcomeDenied
}

// Snapshot returns the granted and denied scopes in vocabulary order,
// followed by any scopes outside the known vocabulary.
func (l *Ledger) Snapshot() (granted, denied []Scope) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, s := range All() {
		switch l.outcomes[s] {
		case OutcomeGranted:
			granted = append(granted, s)
		case OutcomeDenied:
			denied = append(denied, s)
		}
	}
	for s, o := range l.outcomes {
		if slices.Contains(All(), s) {
			continue
		}
		switch o {
		case OutcomeGranted:
			granted = append(granted, s)
		case OutcomeDenied:
			denied = append(denied, s)
		}
	}
	return granted, denied
}

// Reset clears all recorded outcomes.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = make(map[Scope]Outcome)
}
