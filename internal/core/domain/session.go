package domain

import "errors"

// SessionSlot is the fixed name of the persisted session slot. Servers that
// host many devices suffix it with a per-device key (see SlotKey).
const SessionSlot = "crm-user"

var ErrSessionNotFound = errors.New("session not found")

// Session is the single signed-in user context of one device. A nil User
// means nobody is signed in and every predicate is false.
type Session struct {
	Key  string
	User *User
}

// NewSession returns an anonymous session persisted under SlotKey(device).
func NewSession(device string) *Session {
	return &Session{Key: SlotKey(device)}
}

// SlotKey builds the persisted slot key for a device.
func SlotKey(device string) string {
	if device == "" {
		return SessionSlot
	}
	return SessionSlot + ":" + device
}

func (s *Session) Authenticated() bool {
	return s != nil && s.User != nil
}

// Role returns the current user's role, or "" when nobody is signed in.
func (s *Session) Role() Role {
	if !s.Authenticated() {
		return ""
	}
	return s.User.Role
}

// Predicates are recomputed from the current user on every call, so a role
// edited in the roster takes effect as soon as the session is restored.
func (s *Session) Can(p Permission) bool   { return s.Role().Can(p) }
func (s *Session) CanEdit() bool           { return CanEdit(s.Role()) }
func (s *Session) CanSubmitFeedback() bool { return CanSubmitFeedback(s.Role()) }
func (s *Session) CanViewAnalytics() bool  { return CanViewAnalytics(s.Role()) }
func (s *Session) CanManageUsers() bool    { return CanManageUsers(s.Role()) }

// SignIn attaches u to the session.
func (s *Session) SignIn(u *User) {
	s.User = u.Clone()
}

// SignOut detaches the current user. Safe on an anonymous session.
func (s *Session) SignOut() {
	if s != nil {
		s.User = nil
	}
}
