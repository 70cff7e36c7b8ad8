package ecolatam

import (
	"context"

	"github.com/tidwall/gjson"
)

// RoleTables checks membership in the per-role backend tables. It satisfies
// ports.MembershipChecker.
type RoleTables struct {
	backend Backend
}

func NewRoleTables(backend Backend) *RoleTables {
	return &RoleTables{backend: backend}
}

// HasMember reports whether any row of the table at path has an id_user
// numerically equal to userID. Unrecognised bodies have no members.
func (r *RoleTables) HasMember(ctx context.Context, path string, userID int64) (bool, error) {
	resp, err := r.backend.Get(ctx, path, nil)
	if err != nil {
		return false, err
	}
	if !gjson.ValidBytes(resp.Body) {
		return false, nil
	}

	want := float64(userID)
	found := false
	rowsOf(resp.Body).ForEach(func(_, row gjson.Result) bool {
		if row.Get("id_user").Float() == want {
			found = true
			return false
		}
		return true
	})
	return found, nil
}
