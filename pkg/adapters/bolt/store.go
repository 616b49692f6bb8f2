// Package bolt persists session snapshots in a local bbolt database.
package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/moore/pkg/domain"
	bolt "go.etcd.io/bbolt"
)

var sessionsBucket = []byte("sessions")

// Store implements ports.StateStore on top of a single bbolt file.
// Snapshots are msgpack-encoded and keyed by session ID.
type Store struct {
	db   *bolt.DB
	path string
}

// Open creates or reopens the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sessions bucket: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists the snapshot.
func (s *Store) Save(ctx context.Context, sessionID string, snap *domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeMsgPack(toRecord(snap))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sessionID), data)
	})
}

// Load retrieves the snapshot.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rec record
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(sessionsBucket).Get([]byte(sessionID))
		if value == nil {
			return domain.ErrSessionNotFound
		}
		// value is only valid inside the transaction; decoding copies it.
		return decodeMsgPack(value, &rec)
	})
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return rec.snapshot(), nil
}

// Delete removes the snapshot. Missing sessions are not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(sessionID))
	})
}

// List returns session IDs in key order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sessions []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(k, _ []byte) error {
			sessions = append(sessions, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}
