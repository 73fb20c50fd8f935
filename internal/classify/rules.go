package classify

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ctxchat/internal/scope"
)

func toScopes(in []string) []scope.Scope {
	if len(in) == 0 {
		return nil
	}
	out := make([]scope.Scope, len(in))
	for i, s := range in {
		out[i] = scope.Scope(s)
	}
	return out
}

//go:embed rules.yaml
var embeddedRules []byte

// RuleSet is the on-disk shape of a classifier table.
type RuleSet struct {
	// Default names the response used when no rule matches.
	Default string `yaml:"default"`
	// Rules are evaluated top to bottom; first match wins.
	Rules []Rule `yaml:"rules"`
	// Responses maps response IDs to their content.
	Responses map[string]Response `yaml:"responses"`
}

// UnmarshalYAML for Rule keeps the list form readable in the file.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Keywords []string `yaml:"keywords"`
		Response string   `yaml:"response"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	r.Keywords = raw.Keywords
	r.Response = raw.Response
	return nil
}

// UnmarshalYAML for Response; the ID is filled from the map key.
func (r *Response) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Body     string `yaml:"body"`
		FollowUp string `yaml:"follow_up"`
		Access   struct {
			Allowed   []string `yaml:"allowed"`
			Requested []string `yaml:"requested"`
			Denied    []string `yaml:"denied"`
		} `yaml:"access"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	r.Body = raw.Body
	r.FollowUp = raw.FollowUp
	r.Access.Allowed = toScopes(raw.Access.Allowed)
	r.Access.Requested = toScopes(raw.Access.Requested)
	r.Access.Denied = toScopes(raw.Access.Denied)
	return nil
}

// Validate checks referential integrity of the table.
func (rs *RuleSet) Validate() error {
	if rs.Default == "" {
		return fmt.Errorf("rule set has no default response")
	}
	if _, ok := rs.Responses[rs.Default]; !ok {
		return fmt.Errorf("default response %q is not defined", rs.Default)
	}
	for i, rule := range rs.Rules {
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("rule %d has no keywords", i)
		}
		if _, ok := rs.Responses[rule.Response]; !ok {
			return fmt.Errorf("rule %d references undefined response %q", i, rule.Response)
		}
	}
	return nil
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRules reads a rule table from disk.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules: %w", err)
	}
	return ParseRules(data)
}

// DefaultRules returns the embedded rule table. The embedded file is
// compiled in and validated by tests, so a decode failure is a build
// defect; it panics rather than returning an error.
func DefaultRules() *RuleSet {
	rs, err := ParseRules(embeddedRules)
	if err != nil {
		panic(fmt.Sprintf("embedded rules invalid: %v", err))
	}
	return rs
}
