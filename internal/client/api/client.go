// Package api contains the client-side contract for the ERP backend and a
// concrete JSON-over-HTTP implementation.
//
// The package provides:
//  1. A transport-agnostic contract (AuthAPI, UsersAPI, TodosAPI,
//     EnquiriesAPI, combined in Client) covering every backend operation the
//     admin client performs.
//  2. RESTClient, which holds the bearer credentials, stamps auth and tenant
//     headers on every request, transparently refreshes an expired token
//     once per request, and maps failures to sentinel errors.
//
// Common conditions are exposed as sentinels callers can match with
// errors.Is: common.ErrUnauthorized, common.ErrUnavailable.
package api

import (
	"context"

	"github.com/pavelgris/erpadmin/internal/client/models"
)

// LoginResult is the response of POST /login.
type LoginResult struct {
	User  models.RawUser `json:"user"`
	Token string         `json:"token"`
}

// AuthAPI covers session lifecycle calls and credential custody. The session
// manager is the only writer of the credential state.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.RawUser, error)
	RefreshToken(ctx context.Context) (string, error)

	SetAuth(token, tenantID, userID string)
	ClearAuth()
	Token() string
}

// UsersAPI covers the user management endpoints.
type UsersAPI interface {
	ListUsers(ctx context.Context, q models.ListQuery) (*models.UserList, error)
	CreateUser(ctx context.Context, in models.UserPayload) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, in models.UserPayload) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AssignRole(ctx context.Context, userID, roleID int64) error
	RemoveRole(ctx context.Context, userID, roleID int64) error
}

// TodosAPI covers the todo endpoints, including the reorder protocol.
type TodosAPI interface {
	ListTodos(ctx context.Context, perPage int) (*models.TodoList, error)
	CreateTodo(ctx context.Context, in models.TodoPayload) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id int64, patch models.TodoPatch) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	ReorderTodos(ctx context.Context, orderedIDs []int64) error
}

// EnquiriesAPI covers enquiry submission, listing and contact lookup.
type EnquiriesAPI interface {
	ListEnquiries(ctx context.Context, q models.ListQuery) (*models.EnquiryList, error)
	CreateEnquiry(ctx context.Context, in models.EnquiryPayload) (*models.EnquiryReceipt, error)
	LookupContact(ctx context.Context, phone string) (*models.Contact, error)
}

// Client is the full backend contract.
type Client interface {
	AuthAPI
	UsersAPI
	TodosAPI
	EnquiriesAPI
}
