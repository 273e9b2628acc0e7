package model

// Sidebar button placement values.
const (
	SidebarButtonsTeam    = "team"
	SidebarButtonsChannel = "channel"
	SidebarButtonsOff     = "off"
)

// UserSettings are the per-user plugin settings returned with the connection.
type UserSettings struct {
	SidebarButtons string `json:"sidebar_buttons"`
	DailyReminder  bool   `json:"daily_reminder"`
	Notifications  bool   `json:"notifications"`
}

// DefaultUserSettings returns the settings assumed before the first
// connection response arrives.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		SidebarButtons: SidebarButtonsTeam,
		DailyReminder:  true,
		Notifications:  true,
	}
}

// ConnectionInfo describes whether the current user has linked a GitLab
// account and the account-level settings that shape the sidebar.
type ConnectionInfo struct {
	Connected      bool         `json:"connected"`
	GitLabUsername string       `json:"gitlab_username"`
	GitLabClientID string       `json:"gitlab_client_id"`
	GitLabURL      string       `json:"gitlab_url,omitempty"`
	Organization   string       `json:"organization,omitempty"`
	Settings       UserSettings `json:"settings"`
}

// Disconnected is the state applied when the server reports the account is
// not linked.
func Disconnected() ConnectionInfo {
	return ConnectionInfo{Connected: false}
}
