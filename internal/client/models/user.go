package models

import "strconv"

// Role is a named role attached to a user account.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User is a managed user record as served by the users list endpoint.
type User struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
	Roles  []Role `json:"roles,omitempty"`
}

// SessionUser is the normalized identity held by the session manager.
// It is the shape persisted under the auth_user key.
type SessionUser struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Active      bool     `json:"active"`
	TenantID    string   `json:"tenantId,omitempty"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
}

// RawUser is the backend's user payload before normalization. Active and
// tenant id may be absent; the session manager fills the defaults.
type RawUser struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Active      *bool    `json:"active"`
	TenantID    string   `json:"tenant_id"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Normalize coerces a backend user payload into the session's canonical
// shape: string id, active defaulting to true, tenant defaulting to
// "default", and nil role/permission sets replaced with empty ones.
func (r RawUser) Normalize() SessionUser {
	u := SessionUser{
		ID:          strconv.FormatInt(r.ID, 10),
		Name:        r.Name,
		Email:       r.Email,
		Active:      true,
		TenantID:    r.TenantID,
		Roles:       r.Roles,
		Permissions: r.Permissions,
	}
	if r.Active != nil {
		u.Active = *r.Active
	}
	if u.TenantID == "" {
		u.TenantID = "default"
	}
	if u.Roles == nil {
		u.Roles = []Role{}
	}
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	return u
}

// UserPayload is the body of POST /users and PUT /users/:id. Password fields
// are sent only when the operator actually typed a new password.
type UserPayload struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Active               bool   `json:"active"`
	Password             string `json:"password,omitempty"`
	PasswordConfirmation string `json:"password_confirmation,omitempty"`
}
