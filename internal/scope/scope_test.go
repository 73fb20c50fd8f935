package scope

import "testing"

func TestAccessClone(t *testing.T) {
	a := Access{
		Allowed:   []Scope{PreferencesShopping},
		Requested: []Scope{PreferencesNews},
	}
	b := a.Clone()
	b.Allowed[0] = Location
	if a.Allowed[0] != PreferencesShopping {
		t.Fatalf("clone aliased the allowed slice")
	}
	if !a.HasRequests() {
		t.Fatalf("expected pending requests")
	}
	if a.IsZero() {
		t.Fatalf("triple with scopes reported zero")
	}
	if !(Access{}).IsZero() {
		t.Fatalf("empty triple not reported zero")
	}
}

func TestAccessEqual(t *testing.T) {
	a := Access{Allowed: []Scope{PreferencesEntertainment}}
	b := Access{Allowed: []Scope{PreferencesEntertainment}}
	if !a.Equal(b) {
		t.Fatalf("expected triples equal")
	}
	b.Denied = []Scope{Location}
	if a.Equal(b) {
		t.Fatalf("expected triples unequal")
	}
}

func TestLedgerGrantDeny(t *testing.T) {
	l := NewLedger()
	l.Deny(PreferencesNews)
	if !l.Denied(PreferencesNews) {
		t.Fatalf("expected denial recorded")
	}

	// A later grant overrides the denial.
	l.Grant(PreferencesNews)
	if l.Denied(PreferencesNews) {
		t.Fatalf("grant should override denial")
	}
	if !l.Granted(PreferencesNews) {
		t.Fatalf("expected grant recorded")
	}

	granted, denied := l.Snapshot()
	if len(granted) != 1 || granted[0] != PreferencesNews {
		t.Fatalf("unexpected granted snapshot: %v", granted)
	}
	if len(denied) != 0 {
		t.Fatalf("unexpected denied snapshot: %v", denied)
	}

	l.Reset()
	if l.Granted(PreferencesNews) {
		t.Fatalf("expected ledger cleared after reset")
	}
}

func TestPolicyDecide(t *testing.T) {
	ledger := NewLedger()
	ledger.Grant(PreferencesEntertainment)
	ledger.Deny(Location)

	p := NewPolicy(ledger, []Scope{PreferencesShopping}, []Scope{PurchaseHistory})

	cases := []struct {
		scope Scope
		want  Decision
	}{
		{PreferencesShopping, Grant},       // config auto-approve
		{PurchaseHistory, Refuse},          // config auto-deny
		{PreferencesEntertainment, Grant},  // session grant
		{Location, Refuse},                 // session denial
		{PreferencesNews, Prompt},          // nothing on record
	}
	for _, tc := range cases {
		if got := p.Decide(tc.scope); got != tc.want {
			t.Fatalf("Decide(%s) = %s, want %s", tc.scope, got, tc.want)
		}
	}
}

func TestPolicyConfigBeatsLedger(t *testing.T) {
	ledger := NewLedger()
	ledger.Grant(PurchaseHistory)
	p := NewPolicy(ledger, nil, []Scope{PurchaseHistory})
	if got := p.Decide(PurchaseHistory); got != Refuse {
		t.Fatalf("auto-deny should beat a session grant, got %s", got)
	}
}

func TestPolicySplit(t *testing.T) {
	p := NewPolicy(nil, []Scope{BehavioralPatterns}, nil)
	granted, refused, prompt := p.Split([]Scope{BehavioralPatterns, PreferencesNews})
	if len(granted) != 1 || granted[0] != BehavioralPatterns {
		t.Fatalf("unexpected granted: %v", granted)
	}
	if len(refused) != 0 {
		t.Fatalf("unexpected refused: %v", refused)
	}
	if len(prompt) != 1 || prompt[0] != PreferencesNews {
		t.Fatalf("unexpected prompt set: %v", prompt)
	}
}
