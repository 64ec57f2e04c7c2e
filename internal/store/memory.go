package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memoryDoc struct {
	seq  int64
	data string
}

// Memory is an in-process store used for tests and throwaway sessions.
// Bodies are kept as JSON so reads behave like the persistent backends.
type Memory struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]memoryDoc
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]memoryDoc)}
}

func (m *Memory) List(ctx context.Context, path string) ([]Record, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := m.collections[path]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return docs[ids[i]].seq < docs[ids[j]].seq
	})

	results := make([]Record, 0, len(ids))
	for _, id := range ids {
		rec, err := unmarshalFields(id, docs[id].data)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, nil
}

func (m *Memory) Get(ctx context.Context, path, id string) (Record, error) {
	if err := ValidatePath(path); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[path][id]
	if !ok {
		return Record{}, fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	return unmarshalFields(id, doc.data)
}

func (m *Memory) Create(ctx context.Context, path string, fields Fields) (string, error) {
	id := NewID()
	if err := m.Put(ctx, path, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (m *Memory) Update(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[path][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", path, id, ErrNotFound)
	}
	current, err := unmarshalFields(id, doc.data)
	if err != nil {
		return err
	}
	for k, v := range fields {
		if v == nil {
			delete(current.Fields, k)
			continue
		}
		current.Fields[k] = v
	}
	data, err := marshalFields(current.Fields)
	if err != nil {
		return err
	}
	doc.data = data
	m.collections[path][id] = doc
	return nil
}

func (m *Memory) Delete(ctx context.Context, path, id string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[path], id)
	return nil
}

func (m *Memory) Put(ctx context.Context, path, id string, fields Fields) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	data, err := marshalFields(fields)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[path]
	if !ok {
		docs = make(map[string]memoryDoc)
		m.collections[path] = docs
	}
	seq := docs[id].seq
	if _, exists := docs[id]; !exists {
		m.seq++
		seq = m.seq
	}
	docs[id] = memoryDoc{seq: seq, data: data}
	return nil
}

func (m *Memory) Close() error { return nil }
