package domain

import "testing"

func TestRolePredicates(t *testing.T) {
	cases := []struct {
		role                                    Role
		edit, submit, analytics, manage, delete bool
	}{
		{RoleAdmin, true, false, true, true, true},
		{RoleFocalPerson, true, true, false, false, false},
		{RoleViewer, false, false, true, false, false},
		{"", false, false, false, false, false},
		{"owner", false, false, false, false, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			if got := CanEdit(tc.role); got != tc.edit {
				t.Errorf("CanEdit = %v, want %v", got, tc.edit)
			}
			if got := CanSubmitFeedback(tc.role); got != tc.submit {
				t.Errorf("CanSubmitFeedback = %v, want %v", got, tc.submit)
			}
			if got := CanViewAnalytics(tc.role); got != tc.analytics {
				t.Errorf("CanViewAnalytics = %v, want %v", got, tc.analytics)
			}
			if got := CanManageUsers(tc.role); got != tc.manage {
				t.Errorf("CanManageUsers = %v, want %v", got, tc.manage)
			}
			if got := CanDeleteTasks(tc.role); got != tc.delete {
				t.Errorf("CanDeleteTasks = %v, want %v", got, tc.delete)
			}
		})
	}
}

func TestRolePermissions_ReturnsCopy(t *testing.T) {
	perms := RoleAdmin.Permissions()
	perms[0] = "tampered"
	if !CanEdit(RoleAdmin) {
		t.Error("mutating the returned slice must not change the truth table")
	}
}

func TestSession_PredicatesFollowUser(t *testing.T) {
	s := NewSession("tablet")
	if s.Key != "crm-user:tablet" {
		t.Errorf("unexpected slot key %q", s.Key)
	}
	if s.Authenticated() || s.CanEdit() || s.CanViewAnalytics() {
		t.Error("anonymous session must grant nothing")
	}

	u := &User{ID: "1", Name: "Mike Viewer", Email: "viewer@ngo.org", Role: RoleViewer}
	s.SignIn(u)
	u.Role = RoleAdmin
	if s.CanManageUsers() {
		t.Error("session must hold its own copy of the user")
	}
	if !s.CanViewAnalytics() {
		t.Error("viewer must view analytics")
	}

	s.SignOut()
	if s.Authenticated() || s.Role() != "" {
		t.Error("signed-out session must be anonymous")
	}

	var nilSession *Session
	nilSession.SignOut()
	if nilSession.CanEdit() {
		t.Error("nil session must grant nothing")
	}
}

func TestVisibleNavigation(t *testing.T) {
	cases := []struct {
		role Role
		want []string
	}{
		{RoleAdmin, []string{"Dashboard", "Task Manager", "Analytics", "User Management"}},
		{RoleFocalPerson, []string{"Dashboard", "Feedback Form", "Task Manager"}},
		{RoleViewer, []string{"Dashboard", "Analytics"}},
		{"", nil},
	}

	for _, tc := range cases {
		got := VisibleNavigation(tc.role)
		if len(got) != len(tc.want) {
			t.Errorf("role %q: expected %d items, got %d", tc.role, len(tc.want), len(got))
			continue
		}
		for i, name := range tc.want {
			if got[i].Name != name {
				t.Errorf("role %q: item %d = %q, want %q", tc.role, i, got[i].Name, name)
			}
		}
	}
}
