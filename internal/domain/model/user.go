package model

import "time"

// UserProfile is a cached GitLab user lookup. A profile is either resolved
// (Username set) or negative-cached (LastTry set, Username empty).
type UserProfile struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	WebURL    string    `json:"web_url,omitempty"`
	LastTry   time.Time `json:"last_try,omitempty"`
}

// IsResolved reports whether the profile carries a username.
func (p UserProfile) IsResolved() bool {
	return p.Username != ""
}

// IsNegative reports whether the profile records a failed lookup.
func (p UserProfile) IsNegative() bool {
	return p.Username == "" && !p.LastTry.IsZero()
}
