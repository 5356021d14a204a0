package domain

import (
	"errors"
	"testing"
)

func TestUser_Validate(t *testing.T) {
	cases := []struct {
		name string
		user User
		ok   bool
	}{
		{"valid", User{Name: "Sarah", Email: "sarah@ngo.org", Role: RoleFocalPerson}, true},
		{"missing name", User{Email: "sarah@ngo.org", Role: RoleFocalPerson}, false},
		{"bad email", User{Name: "Sarah", Email: "sarah", Role: RoleFocalPerson}, false},
		{"bad role", User{Name: "Sarah", Email: "sarah@ngo.org", Role: "owner"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidUser) {
				t.Errorf("expected ErrInvalidUser, got %v", err)
			}
		})
	}
}

func TestFilterUsers(t *testing.T) {
	users := []*User{
		{ID: "1", Name: "John Admin", Email: "admin@ngo.org", Role: RoleAdmin},
		{ID: "2", Name: "Sarah Focal", Email: "focal@ngo.org", Role: RoleFocalPerson},
		{ID: "3", Name: "Mike Viewer", Email: "viewer@ngo.org", Role: RoleViewer},
	}

	if got := FilterUsers(users, UserFilter{Search: "NGO.ORG", Role: "all"}); len(got) != 3 {
		t.Errorf("search over email must match all, got %d", len(got))
	}
	got := FilterUsers(users, UserFilter{Role: "viewer"})
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("role filter failed: %v", got)
	}
	if got := FilterUsers(users, UserFilter{Search: "sarah", Role: "admin"}); len(got) != 0 {
		t.Errorf("criteria must be conjunctive, got %d", len(got))
	}

	stats := ComputeRosterStats(users)
	if stats != (RosterStats{Total: 3, Admins: 1, FocalPersons: 1, Viewers: 1}) {
		t.Errorf("unexpected roster stats %+v", stats)
	}
}
