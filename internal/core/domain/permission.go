package domain

// Permission names an action gated by role.
type Permission string

const (
	PermEditTasks      Permission = "edit_tasks"
	PermDeleteTasks    Permission = "delete_tasks"
	PermSubmitFeedback Permission = "submit_feedback"
	PermViewAnalytics  Permission = "view_analytics"
	PermManageUsers    Permission = "manage_users"
)

// rolePermissions is the fixed truth table behind every predicate below.
var rolePermissions = map[Role][]Permission{
	RoleAdmin:       {PermEditTasks, PermDeleteTasks, PermViewAnalytics, PermManageUsers},
	RoleFocalPerson: {PermEditTasks, PermSubmitFeedback},
	RoleViewer:      {PermViewAnalytics},
}

// Can reports whether r grants p. Unknown and empty roles grant nothing.
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// Permissions lists what r grants, in a stable order.
func (r Role) Permissions() []Permission {
	out := make([]Permission, len(rolePermissions[r]))
	copy(out, rolePermissions[r])
	return out
}

func CanEdit(r Role) bool           { return r.Can(PermEditTasks) }
func CanSubmitFeedback(r Role) bool { return r.Can(PermSubmitFeedback) }
func CanViewAnalytics(r Role) bool  { return r.Can(PermViewAnalytics) }
func CanManageUsers(r Role) bool    { return r.Can(PermManageUsers) }

// CanDeleteTasks is stricter than CanEdit: admins only.
func CanDeleteTasks(r Role) bool { return r.Can(PermDeleteTasks) }
