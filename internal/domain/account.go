package domain

import "strings"

// Account is a person referenced by shift assignments.
type Account struct {
	ID          string `json:"id"`
	ScreenName  string `json:"screen_name,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	MobilePhone string `json:"mobile_phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// DisplayName is the name the dashboard shows for an assignee.
func (a Account) DisplayName() string {
	if a.ScreenName != "" {
		return a.ScreenName
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Workgroup is a team referenced by shift assignments.
type Workgroup struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
