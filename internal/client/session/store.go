// Package session persists the bearer token and the cached profile blob.
//
// It is the only shared mutable state in the client: the API client reads
// the token from here on every request and the auth context writes through
// here on login and logout. No expiry or signature checks happen here.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/resumematch/internal/client/models"
	"github.com/dmitrijs2005/resumematch/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/resumematch/internal/common"
	"github.com/dmitrijs2005/resumematch/internal/cryptox"
	"github.com/dmitrijs2005/resumematch/internal/dbx"
)

// ErrCorrupt is returned when a stored value cannot be decoded or unsealed.
var ErrCorrupt = errors.New("session data is corrupt")

// Store is the session store contract.
type Store interface {
	// Token returns the stored token or "" when there is none.
	Token(ctx context.Context) (string, error)
	// Profile returns the cached profile or nil when there is none.
	Profile(ctx context.Context) (*models.Profile, error)
	// Set replaces the token and the cached profile atomically. A nil
	// profile removes any previously cached one.
	Set(ctx context.Context, token string, profile *models.Profile) error
	// Clear removes the token and the cached profile.
	Clear(ctx context.Context) error
}

type sqliteStore struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

// NewSQLiteStore returns a Store over db. An empty passphrase stores values
// in plain form; otherwise values are sealed with a key derived from the
// passphrase and a per-database salt (created on first use).
func NewSQLiteStore(ctx context.Context, db *sql.DB, passphrase string) (Store, error) {
	s := &sqliteStore{db: db}
	if passphrase == "" {
		return s, nil
	}

	sealer, err := s.loadSealer(ctx, []byte(passphrase))
	if err != nil {
		return nil, err
	}
	s.sealer = sealer
	return s, nil
}

func (s *sqliteStore) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *sqliteStore) loadSealer(ctx context.Context, passphrase []byte) (*cryptox.Sealer, error) {
	defer common.WipeByteArray(passphrase)

	var salt []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		existing, err := r.Get(ctx, common.SessionSaltKey)
		if err != nil {
			return err
		}
		if len(existing) == cryptox.SaltSize {
			salt = existing
			return nil
		}
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		return r.Set(ctx, common.SessionSaltKey, salt)
	})
	if err != nil {
		return nil, fmt.Errorf("load session salt: %w", err)
	}

	key := cryptox.DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)
	return cryptox.NewSealer(key)
}

func (s *sqliteStore) encode(v []byte) ([]byte, error) {
	if s.sealer == nil {
		return v, nil
	}
	return s.sealer.Seal(v)
}

func (s *sqliteStore) decode(v []byte) ([]byte, error) {
	if s.sealer == nil || v == nil {
		return v, nil
	}
	plain, err := s.sealer.Open(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return plain, nil
}

func (s *sqliteStore) Token(ctx context.Context) (string, error) {
	raw, err := s.repo(s.db).Get(ctx, common.SessionTokenKey)
	if err != nil {
		return "", err
	}
	plain, err := s.decode(raw)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (s *sqliteStore) Profile(ctx context.Context) (*models.Profile, error) {
	raw, err := s.repo(s.db).Get(ctx, common.SessionProfileKey)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	plain, err := s.decode(raw)
	if err != nil {
		return nil, err
	}

	var p models.Profile
	if err := json.Unmarshal(plain, &p); err != nil {
		return nil, fmt.Errorf("%w: profile: %w", ErrCorrupt, err)
	}
	return &p, nil
}

func (s *sqliteStore) Set(ctx context.Context, token string, profile *models.Profile) error {
	tokenValue, err := s.encode([]byte(token))
	if err != nil {
		return err
	}

	var profileValue []byte
	if profile != nil {
		b, err := json.Marshal(profile)
		if err != nil {
			return fmt.Errorf("marshal profile: %w", err)
		}
		if profileValue, err = s.encode(b); err != nil {
			return err
		}
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, common.SessionTokenKey, tokenValue); err != nil {
			return err
		}
		if profileValue == nil {
			return r.Delete(ctx, common.SessionProfileKey)
		}
		return r.Set(ctx, common.SessionProfileKey, profileValue)
	})
}

func (s *sqliteStore) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, common.SessionTokenKey, common.SessionProfileKey)
}
