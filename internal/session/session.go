package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mirage/artesanato/internal/config"
	"github.com/mirage/artesanato/internal/logging"
)

// Keys written on login
const (
	KeyID    = "id"
	KeyNome  = "nome"
	KeyEmail = "email"
)

// DefaultDisplayName is shown when nobody is logged in
const DefaultDisplayName = "Sua Conta"

// ErrNotLoggedIn is returned by Load when the store holds no artisan id.
var ErrNotLoggedIn = errors.New("session: not logged in")

// Session is the logged-in artisan.
type Session struct {
	ID    string
	Nome  string
	Email string
}

// Save writes all three identifiers.
func Save(ctx context.Context, store Store, s Session) error {
	for _, kv := range [][2]string{{KeyID, s.ID}, {KeyNome, s.Nome}, {KeyEmail, s.Email}} {
		if err := store.Set(ctx, kv[0], kv[1]); err != nil {
			return err
		}
	}
	logging.LogSession(backendName(store), "saved", KeyID, KeyNome, KeyEmail)
	return nil
}

// Load reads the session. A store without an id yields ErrNotLoggedIn;
// missing nome or email are left empty.
func Load(ctx context.Context, store Store) (Session, error) {
	id, err := store.Get(ctx, KeyID)
	if errors.Is(err, ErrNotFound) || (err == nil && id == "") {
		return Session{}, ErrNotLoggedIn
	}
	if err != nil {
		return Session{}, err
	}

	s := Session{ID: id}
	if s.Nome, err = optional(ctx, store, KeyNome); err != nil {
		return Session{}, err
	}
	if s.Email, err = optional(ctx, store, KeyEmail); err != nil {
		return Session{}, err
	}
	return s, nil
}

func optional(ctx context.Context, store Store, key string) (string, error) {
	v, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Clear removes the session.
func Clear(ctx context.Context, store Store) error {
	if err := store.Delete(ctx, KeyID, KeyNome, KeyEmail); err != nil {
		return err
	}
	logging.LogSession(backendName(store), "cleared")
	return nil
}

// DisplayName returns the artisan's name, or DefaultDisplayName when there
// is no session or it has no name.
func DisplayName(ctx context.Context, store Store) string {
	s, err := Load(ctx, store)
	if err != nil || s.Nome == "" {
		return DefaultDisplayName
	}
	return s.Nome
}

// Open creates the store selected by cfg.Session.Backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendMemory:
		return NewMemoryStore(), nil
	case config.SessionBackendRedis:
		return NewRedisStore(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
	case config.SessionBackendFile, "":
		logging.Debug("Using session file", zap.String("path", cfg.Session.File))
		return NewFileStore(cfg.Session.File), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func backendName(store Store) string {
	switch store.(type) {
	case *FileStore:
		return config.SessionBackendFile
	case *RedisStore:
		return config.SessionBackendRedis
	case *MemoryStore:
		return config.SessionBackendMemory
	default:
		return fmt.Sprintf("%T", store)
	}
}
