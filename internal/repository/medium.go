// Package repository defines the persistence media the task store reads from and writes to.
package repository

import (
	"context"

	"fastodo/internal/domain"
	"fastodo/internal/errors"
)

// Medium is where the task collection lives between runs. The whole collection is read and
// written at once.
type Medium interface {
	// Name identifies the medium in logs and errors.
	Name() string
	// Writable reports whether Save can succeed at all.
	Writable() bool
	// Load returns the persisted records. A medium that holds nothing yet returns no records
	// and no error.
	Load(ctx context.Context) ([]domain.Record, error)
	// Save replaces the persisted records.
	Save(ctx context.Context, records []domain.Record) error
	Close() error
}

// KeyValue is a string key-value store in the manner of browser local storage.
type KeyValue interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// LocalStorage keeps the collection as a JSON array under a single key of a KeyValue store.
type LocalStorage struct {
	name  string
	store KeyValue
	key   string
}

// NewLocalStorage creates a medium over store that uses key for the collection.
func NewLocalStorage(name string, store KeyValue, key string) *LocalStorage {
	return &LocalStorage{name: name, store: store, key: key}
}

// Name identifies the backing store.
func (l *LocalStorage) Name() string {
	return l.name
}

// Writable is always true for key-value media.
func (l *LocalStorage) Writable() bool {
	return true
}

// Load reads and decodes the collection. An absent key yields no records.
func (l *LocalStorage) Load(ctx context.Context) ([]domain.Record, error) {
	value, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, errors.NewStorageError("read "+l.key, err).WithContext("medium", l.name)
	}
	if !ok {
		return nil, nil
	}

	records, err := domain.UnmarshalRecords([]byte(value))
	if err != nil {
		return nil, errors.NewDecodeError(l.name+":"+l.key, err)
	}
	return records, nil
}

// Save encodes the collection and writes it under the key.
func (l *LocalStorage) Save(ctx context.Context, records []domain.Record) error {
	data, err := domain.MarshalRecords(records)
	if err != nil {
		return errors.NewStorageError("encode tasks", err)
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return errors.NewStorageError("write "+l.key, err).WithContext("medium", l.name)
	}
	return nil
}

// Close releases the underlying store.
func (l *LocalStorage) Close() error {
	return l.store.Close()
}
