package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pavelgris/erpadmin/internal/client/api"
	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/client/querycache"
	"github.com/pavelgris/erpadmin/internal/common"
	"github.com/pavelgris/erpadmin/internal/logging"
)

const usersEntity = "users"

// RoleIDs maps role names to the backend lookup table.
var RoleIDs = map[string]int64{
	"superadmin": 1,
	"admin":      2,
	"cashier":    3,
	"manager":    4,
}

// Users is the user management service: server-side filtered/paginated
// listing plus optimistic create/update/delete with the two-step role
// assignment protocol.
type Users struct {
	api      api.UsersAPI
	store    *querycache.Store[models.User]
	notifier notify.Notifier
	log      logging.Logger

	mu         sync.Mutex
	current    querycache.Fingerprint
	hasCurrent bool
}

func NewUsers(client api.UsersAPI, notifier notify.Notifier, log logging.Logger) *Users {
	return &Users{
		api:      client,
		store:    querycache.NewStore[models.User](),
		notifier: notifier,
		log:      log,
	}
}

// Fingerprint is the cache slot a query resolves to. Mutations take it
// explicitly so the targeted slot is never an implicit capture.
func (s *Users) Fingerprint(q models.ListQuery) querycache.Fingerprint {
	return querycache.ForQuery(usersEntity, q)
}

// List returns the cached page for q, fetching it when absent or stale.
// When the query fingerprint changes, the previous fingerprint's in-flight
// fetch is cancelled: latest query wins.
func (s *Users) List(ctx context.Context, q models.ListQuery) (querycache.List[models.User], error) {
	fp := s.Fingerprint(q)
	if cached, ok := s.store.Get(fp); ok {
		return cached, nil
	}

	s.mu.Lock()
	if s.hasCurrent && s.current.Key() != fp.Key() {
		s.store.CancelInflight(s.current)
	}
	s.current, s.hasCurrent = fp, true
	s.mu.Unlock()

	fctx := s.store.BeginFetch(ctx, fp)
	resp, err := s.api.ListUsers(fctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return querycache.List[models.User]{}, err
		}
		s.notifier.Error(api.Message(err))
		return querycache.List[models.User]{}, err
	}
	list := querycache.List[models.User]{Items: resp.Data, LastPage: resp.Meta.LastPage}
	s.store.CompleteFetch(fctx, fp, list)
	return list, nil
}

// UserInput is the operator's form for creating or editing a user.
type UserInput struct {
	Name            string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
	Active          bool
}

func validateUserInput(isEdit bool, in UserInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return common.ErrNameRequired
	}
	if !emailRe.MatchString(in.Email) {
		return common.ErrInvalidEmail
	}
	if strings.TrimSpace(in.Role) == "" {
		return common.ErrRoleRequired
	}
	return ValidatePassword(isEdit, in.Password, in.ConfirmPassword)
}

// Save creates a new user (current == nil) or updates an existing one,
// optimistically against the cache slot fp. Role changes run as a separate
// remove-then-assign sequence after the core write confirms, using the real
// (never placeholder) user identity.
func (s *Users) Save(ctx context.Context, fp querycache.Fingerprint, current *models.User, in UserInput) error {
	isEdit := current != nil
	if err := validateUserInput(isEdit, in); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	roleName := strings.ToLower(strings.TrimSpace(in.Role))
	roleID := RoleIDs[roleName]
	roles := []models.Role{}
	if roleID != 0 {
		roles = append(roles, models.Role{ID: roleID, Name: roleName})
	}

	speculate := func(l querycache.List[models.User]) querycache.List[models.User] {
		if isEdit {
			for i, u := range l.Items {
				if u.ID == current.ID {
					u.Name, u.Email, u.Active, u.Roles = in.Name, in.Email, in.Active, roles
					l.Items[i] = u
				}
			}
			return l
		}
		// Prepend for immediate visibility.
		placeholder := models.User{
			ID:     s.store.PlaceholderID(),
			Name:   in.Name,
			Email:  in.Email,
			Active: in.Active,
			Roles:  roles,
		}
		l.Items = append([]models.User{placeholder}, l.Items...)
		return l
	}

	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		payload := models.UserPayload{Name: in.Name, Email: in.Email, Active: in.Active}
		if pw := strings.TrimSpace(in.Password); pw != "" {
			payload.Password = pw
			payload.PasswordConfirmation = strings.TrimSpace(in.ConfirmPassword)
		}

		var realID int64
		if isEdit {
			if _, err := s.api.UpdateUser(ctx, current.ID, payload); err != nil {
				return err
			}
			realID = current.ID
		} else {
			saved, err := s.api.CreateUser(ctx, payload)
			if err != nil {
				return err
			}
			realID = saved.ID
		}

		var oldRoleID int64
		if isEdit && len(current.Roles) > 0 {
			oldRoleID = current.Roles[0].ID
		}
		if isEdit && oldRoleID != 0 && oldRoleID != roleID {
			if err := s.api.RemoveRole(ctx, realID, oldRoleID); err != nil {
				return err
			}
		}
		if roleID != 0 {
			if err := s.api.AssignRole(ctx, realID, roleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}

	if isEdit {
		s.notifier.Success("User updated successfully")
	} else {
		s.notifier.Success("User added successfully")
	}
	return nil
}

// ConfirmDeleteName is the pure client-side guard for user deletion: the
// operator must type the exact current display name.
func ConfirmDeleteName(u models.User, typed string) bool {
	return strings.TrimSpace(typed) == u.Name
}

// Delete removes a user optimistically. The confirmation gate is checked
// before anything is touched; a mismatch makes no network call.
func (s *Users) Delete(ctx context.Context, fp querycache.Fingerprint, u models.User, typedName string) error {
	if !ConfirmDeleteName(u, typedName) {
		return common.ErrConfirmNameMismatch
	}

	speculate := func(l querycache.List[models.User]) querycache.List[models.User] {
		kept := l.Items[:0]
		for _, item := range l.Items {
			if item.ID != u.ID {
				kept = append(kept, item)
			}
		}
		l.Items = kept
		return l
	}

	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		return s.api.DeleteUser(ctx, u.ID)
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}
	s.notifier.Success("User deleted successfully")
	return nil
}
