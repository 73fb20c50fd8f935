package scope

import "slices"

// Decision is the outcome of a policy check for a single scope request.
type Decision int

const (
	// Prompt delegates the request to the user interactively.
	Prompt Decision = iota
	// Grant approves the request without asking.
	Grant
	// Refuse denies the request without asking.
	Refuse
)

func (d Decision) String() string {
	switch d {
	case Grant:
		return "grant"
	case Refuse:
		return "refuse"
	default:
		return "prompt"
	}
}

// Policy decides scope requests from configuration first and the session
// ledger second. Scopes on neither list and with no prior user decision
// fall through to an interactive prompt.
type Policy struct {
	ledger      *Ledger
	autoApprove []Scope
	autoDeny    []Scope
}

// NewPolicy builds a policy over the given ledger. A nil ledger gets a
// fresh empty one.
func NewPolicy(ledger *Ledger, autoApprove, autoDeny []Scope) *Policy {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Policy{
		ledger:      ledger,
		autoApprove: slices.Clone(autoApprove),
		autoDeny:    slices.Clone(autoDeny),
	}
}

// Ledger exposes the backing session ledger.
func (p *Policy) Ledger() *Ledger { return p.ledger }

// AutoApproved returns the configured auto-approve list.
func (p *Policy) AutoApproved() []Scope { return slices.Clone(p.autoApprove) }

// AutoDenied returns the configured auto-deny list.
func (p *Policy) AutoDenied() []Scope { return slices.Clone(p.autoDeny) }

// Decide resolves a single scope request. Configuration wins over the
// ledger; an explicit auto-deny beats an earlier interactive grant.
func (p *Policy) Decide(s Scope) Decision {
	if slices.Contains(p.autoDeny, s) {
		return Refuse
	}
	if slices.Contains(p.autoApprove, s) {
		return Grant
	}
	if p.ledger.Granted(s) {
		return Grant
	}
	if p.ledger.Denied(s) {
		return Refuse
	}
	return Prompt
}

// Split partitions requested scopes by decision.
func (p *Policy) Split(requested []Scope) (granted, refused, prompt []Scope) {
	for _, s := range requested {
		switch p.Decide(s) {
		case Grant:
			granted = append(granted, s)
		case Refuse:
			refused = append(refused, s)
		default:
			prompt = append(prompt, s)
		}
	}
	return granted, refused, prompt
}
