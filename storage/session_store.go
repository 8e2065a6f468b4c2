package storage

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var sessionBucket = []byte("sessions")

// SessionStorage is a fiber.Storage backed by BoltDB. Each value is stored with
// an 8-byte big-endian expiry prefix (unix nanoseconds, 0 = never).
type SessionStorage struct {
	db *bolt.DB
}

// NewSessionStorage opens (or creates) the session database at path
func NewSessionStorage(path string) (*SessionStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %v", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %v", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %v", err)
	}

	return &SessionStorage{db: db}, nil
}

// Get returns the value for key, or nil when absent or expired
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	var value []byte
	expired := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionBucket).Get([]byte(key))
		if len(raw) < 8 {
			return nil
		}
		exp := int64(binary.BigEndian.Uint64(raw[:8]))
		if exp != 0 && time.Now().UnixNano() > exp {
			expired = true
			return nil
		}
		// bbolt memory is only valid inside the transaction
		value = append([]byte(nil), raw[8:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, s.Delete(key)
	}
	return value, nil
}

// Set stores val under key; exp <= 0 keeps it until deleted
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	var expiresAt int64
	if exp > 0 {
		expiresAt = time.Now().Add(exp).UnixNano()
	}
	buf := make([]byte, 8+len(val))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiresAt))
	copy(buf[8:], val)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), buf)
	})
}

// Delete removes key
func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}

// Reset removes every session
func (s *SessionStorage) Reset() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(sessionBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(sessionBucket)
		return err
	})
}

// Close closes the database
func (s *SessionStorage) Close() error {
	return s.db.Close()
}

// PurgeExpired deletes expired sessions and reports how many were removed
func (s *SessionStorage) PurgeExpired() (int, error) {
	now := time.Now().UnixNano()
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if len(v) < 8 {
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if exp := int64(binary.BigEndian.Uint64(v[:8])); exp != 0 && now > exp {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}
