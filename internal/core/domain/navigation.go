package domain

// NavItem is one entry of the dashboard navigation. An empty Permission
// means the item is shown to every signed-in user.
type NavItem struct {
	Name       string     `json:"name"`
	Href       string     `json:"href"`
	Permission Permission `json:"permission,omitempty"`
}

var navigation = []NavItem{
	{Name: "Dashboard", Href: "/dashboard"},
	{Name: "Feedback Form", Href: "/feedback", Permission: PermSubmitFeedback},
	{Name: "Task Manager", Href: "/tasks", Permission: PermEditTasks},
	{Name: "Analytics", Href: "/analytics", Permission: PermViewAnalytics},
	{Name: "User Management", Href: "/users", Permission: PermManageUsers},
}

// VisibleNavigation returns the items r may reach. Invalid roles see nothing.
func VisibleNavigation(r Role) []NavItem {
	if !r.Valid() {
		return []NavItem{}
	}
	out := make([]NavItem, 0, len(navigation))
	for _, item := range navigation {
		if item.Permission == "" || r.Can(item.Permission) {
			out = append(out, item)
		}
	}
	return out
}
