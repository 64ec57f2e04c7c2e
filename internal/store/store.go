// Package store is the document store adapter. Records live in named
// collections addressed by slash separated paths, e.g. "menus" or
// "shoppingLists/<id>/items".
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record does not exist in a collection.
var ErrNotFound = errors.New("record not found")

// Fields holds the stored attributes of a record, keyed by JSON field name.
type Fields map[string]any

// Record is a stored document plus its store-assigned id.
type Record struct {
	ID     string
	Fields Fields
}

// Store is the generic CRUD contract every backend implements.
type Store interface {
	List(ctx context.Context, path string) ([]Record, error)
	Get(ctx context.Context, path, id string) (Record, error)
	Create(ctx context.Context, path string, fields Fields) (string, error)
	// Update merges fields into an existing record.
	Update(ctx context.Context, path, id string, fields Fields) error
	Delete(ctx context.Context, path, id string) error
	// Put creates or overwrites a record under a caller supplied id.
	Put(ctx context.Context, path, id string, fields Fields) error
	Close() error
}

// Sub returns the path of a sub-collection below a parent record.
func Sub(parent, id, name string) string {
	return parent + "/" + id + "/" + name
}

// ValidatePath rejects empty paths and paths with an even number of segments,
// which would address a record instead of a collection.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty collection path")
	}
	parts := strings.Split(path, "/")
	if len(parts)%2 == 0 {
		return fmt.Errorf("invalid collection path %q", path)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("invalid collection path %q", path)
		}
	}
	return nil
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// Encode converts a tagged struct into Fields. The "id" key is dropped since
// ids live outside the stored body.
func Encode(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	delete(fields, "id")
	return fields, nil
}

// Decode fills v from the record fields.
func Decode(rec Record, v any) error {
	data, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode record %s: %w", rec.ID, err)
	}
	return nil
}

func marshalFields(fields Fields) (string, error) {
	if fields == nil {
		fields = Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to marshal fields: %w", err)
	}
	return string(data), nil
}

func unmarshalFields(id, data string) (Record, error) {
	var fields Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal record %s: %w", id, err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return Record{ID: id, Fields: fields}, nil
}
