package domain

// Identity is the authenticated caller of a request. It is established once
// per request by the identity resolver and never stored beyond Todo.UserID.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}
