package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Durable auth state keys. The pair is always written and cleared together;
// a session is rehydratable only when both are present.
const (
	KeyAuthUser  = "auth_user"
	KeyAuthToken = "auth_token"
)

// StateRepository is a key/value store over the state table.
type StateRepository struct {
	db DBTX
}

func NewStateRepository(db DBTX) *StateRepository {
	return &StateRepository{db: db}
}

// Get returns the value for key, or nil when the key is absent.
func (r *StateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state[%s]: %w", key, err)
	}
	return value, nil
}

func (r *StateRepository) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set state[%s]: %w", key, err)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete state[%s]: %w", key, err)
	}
	return nil
}

// SaveSession persists the serialized session user and the bearer token in a
// single transaction, so the pair can never diverge.
func SaveSession(ctx context.Context, db *sql.DB, user []byte, token string) error {
	return WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		repo := NewStateRepository(tx)
		if err := repo.Set(ctx, KeyAuthUser, user); err != nil {
			return err
		}
		return repo.Set(ctx, KeyAuthToken, []byte(token))
	})
}

// LoadSession reads the persisted pair. Either both values are returned or
// ok is false.
func LoadSession(ctx context.Context, db *sql.DB) (user []byte, token string, ok bool, err error) {
	repo := NewStateRepository(db)
	user, err = repo.Get(ctx, KeyAuthUser)
	if err != nil {
		return nil, "", false, err
	}
	t, err := repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return nil, "", false, err
	}
	if len(user) == 0 || len(t) == 0 {
		return nil, "", false, nil
	}
	return user, string(t), true, nil
}

// ClearSession removes both auth keys in a single transaction.
func ClearSession(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		repo := NewStateRepository(tx)
		if err := repo.Delete(ctx, KeyAuthUser); err != nil {
			return err
		}
		return repo.Delete(ctx, KeyAuthToken)
	})
}
