package ruleset

// Ruleset is a named, ordered collection of Rules. Order is preserved
// through dispatch, which matters for deterministic test output.
type Ruleset struct {
	ID    string
	Rules []Rule
}

// New creates an empty Ruleset with the given id.
func New(id string) *Ruleset {
	return &Ruleset{ID: id}
}

// WithRule appends rule and returns the Ruleset for chaining.
func (rs *Ruleset) WithRule(rule Rule) *Ruleset {
	rs.Rules = append(rs.Rules, rule)
	return rs
}
