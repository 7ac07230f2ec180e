package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/xmlidx"
)

// Compile-time interface verification.
var _ xmlidx.Store = (*RecordStore)(nil)

// RecordStore implements xmlidx.Store using SQLite.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore on an open DB.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, xxhash.Sum64String(content))
	return hex.EncodeToString(b)
}

// Get returns the value stored under key.
func (s *RecordStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", xmlidx.Errorf(xmlidx.ENOTFOUND, "record %q not found", key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Put writes records in a single transaction. Later records win over
// earlier ones with the same key. Rows whose value is unchanged are not
// rewritten.
func (s *RecordStore) Put(ctx context.Context, records []xmlidx.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (key, value, hash) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, hash = excluded.hash
		WHERE records.hash != excluded.hash
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Key, r.Value, hashContent(r.Value)); err != nil {
			return fmt.Errorf("failed to write record %q: %w", r.Key, err)
		}
	}

	return tx.Commit()
}

// Keys calls fn for every key in byte order.
func (s *RecordStore) Keys(ctx context.Context, fn func(key string) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM records ORDER BY key`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return err
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Scan calls fn for every record in key order.
func (s *RecordStore) Scan(ctx context.Context, fn func(xmlidx.Record) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM records ORDER BY key`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var r xmlidx.Record
		if err := rows.Scan(&r.Key, &r.Value); err != nil {
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Close closes the underlying database.
func (s *RecordStore) Close() error {
	return s.db.Close()
}
