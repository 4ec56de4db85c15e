// Package sweep contains the branch/PR reconciliation core: the
// protection policy, the shared branch table, the concurrent status
// reconciler and the delete coordinator.
package sweep

// ProtectionPolicy decides which branches are never shown or deleted.
// The protected set is injected at construction, never read from
// ambient state.
type ProtectionPolicy struct {
	protected map[string]struct{}
}

// NewProtectionPolicy builds a policy from the configured set.
func NewProtectionPolicy(protected []string) ProtectionPolicy {
	set := make(map[string]struct{}, len(protected))
	for _, name := range protected {
		set[name] = struct{}{}
	}
	return ProtectionPolicy{protected: set}
}

// IsProtected reports whether name is in the protected set or equals
// the current HEAD branch. Comparison is case sensitive.
func (p ProtectionPolicy) IsProtected(name, head string) bool {
	if name == head {
		return true
	}
	_, ok := p.protected[name]
	return ok
}

// FilterCandidates returns the names that may be offered for deletion,
// preserving the input order.
func (p ProtectionPolicy) FilterCandidates(names []string, head string) []string {
	var out []string
	for _, name := range names {
		if !p.IsProtected(name, head) {
			out = append(out, name)
		}
	}
	return out
}
