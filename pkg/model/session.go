package model

import "time"

// Session is the client-side authentication state: who is logged in and the
// bearer token used on their behalf.
type Session struct {
	User      *User     `json:"user,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the session has expired.
// A zero ExpiresAt never expires.
func (s Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsEmpty reports whether the session holds neither a user nor a token.
func (s Session) IsEmpty() bool {
	return s.User == nil && s.Token == ""
}

// Complete reports whether a restored session carries everything needed to
// act on the user's behalf.
func (s Session) Complete() bool {
	return s.User != nil && s.User.ID != "" && s.User.Role.Valid() && s.Token != ""
}
