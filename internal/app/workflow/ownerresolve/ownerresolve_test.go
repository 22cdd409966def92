package ownerresolve

import (
	"testing"

	"github.com/budgetbuddy/server/internal/domain/models"
)

func ownerSet(uids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(uids))
	for _, uid := range uids {
		set[uid] = struct{}{}
	}
	return set
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

func TestPick(t *testing.T) {
	tests := []struct {
		name    string
		acct    *models.Account
		records []models.Member
		want    map[string]struct{}
	}{
		{
			name: "created_by only",
			acct: &models.Account{ID: "acct1", CreatedBy: "u1"},
			want: ownerSet("u1"),
		},
		{
			name: "created_by plus owner records",
			acct: &models.Account{ID: "acct1", CreatedBy: "u1"},
			records: []models.Member{
				{ID: "acct1/u2", Role: models.RoleOwner, UID: "u2"},
				{ID: "acct1/u3", Role: models.RoleMember, UID: "u3"},
			},
			want: ownerSet("u1", "u2"),
		},
		{
			name: "owner role matched case-insensitively",
			acct: &models.Account{ID: "acct1"},
			records: []models.Member{
				{ID: "acct1/u2", Role: "Owner", UID: "u2"},
			},
			want: ownerSet("u2"),
		},
		{
			name: "uid falls back to record key",
			acct: &models.Account{ID: "acct1"},
			records: []models.Member{
				{ID: "acct1/u4", Role: models.RoleOwner},
			},
			want: ownerSet("u4"),
		},
		{
			name: "legacy first-member fallback",
			acct: &models.Account{ID: "acct1", Members: []string{"u1", "u2"}},
			want: ownerSet("u1"),
		},
		{
			name: "fallback skipped when an owner was found",
			acct: &models.Account{ID: "acct1", CreatedBy: "u1", Members: []string{"u9", "u2"}},
			want: ownerSet("u1"),
		},
		{
			name: "nothing resolvable",
			acct: &models.Account{ID: "acct1"},
			want: ownerSet(),
		},
		{
			name: "nil account",
			acct: nil,
			want: ownerSet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pick(tt.acct, tt.records)
			if !sameSet(got, tt.want) {
				t.Errorf("Pick() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrimary(t *testing.T) {
	tests := []struct {
		name    string
		acct    *models.Account
		records []models.Member
		want    string
	}{
		{
			name: "created_by wins",
			acct: &models.Account{ID: "acct1", CreatedBy: "u1", Members: []string{"u9"}},
			records: []models.Member{
				{ID: "acct1/u2", Role: models.RoleOwner, UID: "u2"},
			},
			want: "u1",
		},
		{
			name: "first owner record when created_by missing",
			acct: &models.Account{ID: "acct1"},
			records: []models.Member{
				{ID: "acct1/u3", Role: models.RoleMember, UID: "u3"},
				{ID: "acct1/u2", Role: models.RoleOwner, UID: "u2"},
			},
			want: "u2",
		},
		{
			name: "owner record key when uid field missing",
			acct: &models.Account{ID: "acct1"},
			records: []models.Member{
				{ID: "acct1/u5", Role: models.RoleOwner},
			},
			want: "u5",
		},
		{
			name: "legacy first member",
			acct: &models.Account{ID: "acct1", Members: []string{"u7", "u8"}},
			want: "u7",
		},
		{
			name: "none",
			acct: &models.Account{ID: "acct1"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Primary(tt.acct, tt.records); got != tt.want {
				t.Errorf("Primary() = %q, want %q", got, tt.want)
			}
		})
	}
}
