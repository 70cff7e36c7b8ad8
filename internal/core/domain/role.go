package domain

import "sort"

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleVIP        = "vip"
	RoleCSAgent    = "csagent"
	RoleVolunteer  = "volunteer"
	RoleInspector  = "inspector"
	RoleTourGuide  = "tour_guide"
)

// MatchMode selects how a list of required roles is evaluated.
type MatchMode string

const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// ParseMatchMode defaults to MatchAny for anything other than "all".
func ParseMatchMode(s string) MatchMode {
	if MatchMode(s) == MatchAll {
		return MatchAll
	}
	return MatchAny
}

// RoleSet is an unordered set of role tags.
type RoleSet map[string]struct{}

func NewRoleSet(roles ...string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r != "" {
			set[r] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

// Union returns a new set holding the roles of both sets.
func (s RoleSet) Union(other RoleSet) RoleSet {
	out := make(RoleSet, len(s)+len(other))
	for r := range s {
		out[r] = struct{}{}
	}
	for r := range other {
		out[r] = struct{}{}
	}
	return out
}

// Sorted returns the roles in lexical order.
func (s RoleSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Satisfies evaluates required against the set. With MatchAll every required
// role must be present; with MatchAny at least one. An empty requirement
// is satisfied under MatchAll and not under MatchAny.
func (s RoleSet) Satisfies(required []string, mode MatchMode) bool {
	if mode == MatchAll {
		for _, r := range required {
			if !s.Has(r) {
				return false
			}
		}
		return true
	}
	for _, r := range required {
		if s.Has(r) {
			return true
		}
	}
	return false
}
