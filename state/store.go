// SPDX-License-Identifier: MIT

// Package state offers an embedded key-value store for CLI tools that keep
// local state between runs (counters, caches, cursors). It wraps badger with
// a small string-keyed API and plugs into the yul shutdown sequence.
package state

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/ManuGH/yul/log"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// Store is an embedded key-value store backed by badger.
type Store struct {
	db     *badger.DB
	logger zerolog.Logger
}

// Open opens (or creates) a store in dir.
func Open(dir string) (*Store, error) {
	logger := log.WithComponent("state")

	opts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{logger}).
		WithCompactL0OnClose(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open state store %s: %w", dir, err)
	}

	logger.Debug().Str(log.FieldPath, dir).Msg("state store opened")
	return &Store{db: db, logger: logger}, nil
}

// Get returns the value for key, or ErrKeyNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *Store) Set(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// SetTTL stores value under key with an expiry.
func (s *Store) SetTTL(key string, value []byte, ttl time.Duration) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys returns all keys with the given prefix in lexical order.
func (s *Store) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list keys %q: %w", prefix, err)
	}
	return keys, nil
}

// Close flushes and closes the store. Wire it as a shutdown hook.
func (s *Store) Close() error {
	s.logger.Debug().Msg("closing state store")
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close state store: %w", err)
	}
	return nil
}

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...any) {
	b.l.Error().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...any) {
	b.l.Warn().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Infof(format string, args ...any) {
	b.l.Debug().Msgf(trimNewline(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...any) {
	b.l.Trace().Msgf(trimNewline(format), args...)
}

func trimNewline(format string) string {
	if n := len(format); n > 0 && format[n-1] == '\n' {
		return format[:n-1]
	}
	return format
}
