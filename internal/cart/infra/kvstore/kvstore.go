// Package kvstore persists the cart snapshot in a local string-keyed
// sqlite store, the session-storage equivalent for a single-process
// storefront.
package kvstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
	_ "modernc.org/sqlite"
)

const cartKey = "cart"

type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open creates or opens the store at path, creating parent directories as
// needed.
func Open(path string, log *slog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Save serializes the items under the cart key, last writer wins.
func (s *Store) Save(ctx context.Context, items []domain.LineItem) error {
	if items == nil {
		items = []domain.LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
	INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, cartKey, string(raw))
	if err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted items. A missing key or an unreadable value
// yields an empty cart and no error; the caller always gets a usable cart.
func (s *Store) Load(ctx context.Context) ([]domain.LineItem, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?;`, cartKey).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return []domain.LineItem{}, nil
	case err != nil:
		s.log.Warn("cart snapshot unreadable, starting empty", slog.Any("err", err))
		return []domain.LineItem{}, nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn("cart snapshot corrupted, starting empty", slog.Any("err", err))
		return []domain.LineItem{}, nil
	}
	return items, nil
}
