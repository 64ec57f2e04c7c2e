// Package prefs persists view preferences: table sorting and column
// visibility per view, plus the active shopping list.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// TablePrefs stores per-table UI preferences.
type TablePrefs struct {
	SortKey       string   `json:"sort_key"`
	SortDesc      bool     `json:"sort_desc"`
	HiddenColumns []string `json:"hidden_columns"`
	ActiveColumn  string   `json:"active_column"`
}

// UIPreferences stores persisted app preferences.
type UIPreferences struct {
	Menus      TablePrefs `json:"menus"`
	Recipes    TablePrefs `json:"recipes"`
	Inventory  TablePrefs `json:"inventory"`
	Shopping   TablePrefs `json:"shopping"`
	Diary      TablePrefs `json:"diary"`
	ActiveList string     `json:"active_list"`
	ActiveTab  int        `json:"active_tab"`
}

// Store loads and saves preferences.
type Store interface {
	Load(ctx context.Context) (UIPreferences, error)
	Save(ctx context.Context, p UIPreferences) error
}

// FileStore keeps preferences in a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore stores preferences in dir/ui_prefs.json.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Path: filepath.Join(dir, "ui_prefs.json")}
}

// Load returns zero preferences when the file does not exist yet.
func (s *FileStore) Load(ctx context.Context) (UIPreferences, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return UIPreferences{}, nil
		}
		return UIPreferences{}, fmt.Errorf("failed to read prefs: %w", err)
	}
	var p UIPreferences
	if err := json.Unmarshal(data, &p); err != nil {
		return UIPreferences{}, fmt.Errorf("failed to parse prefs: %w", err)
	}
	return p, nil
}

func (s *FileStore) Save(ctx context.Context, p UIPreferences) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}

// RedisStore shares preferences between machines under one profile key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and checks the connection.
func NewRedisStore(addr, password string, db int, profile string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisStoreWithClient(client, profile), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client *redis.Client, profile string) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, key: fmt.Sprintf("mise:%s:ui_prefs", profile)}
}

func (s *RedisStore) Load(ctx context.Context) (UIPreferences, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return UIPreferences{}, nil
	}
	if err != nil {
		return UIPreferences{}, fmt.Errorf("failed to read prefs: %w", err)
	}
	var p UIPreferences
	if err := json.Unmarshal(data, &p); err != nil {
		return UIPreferences{}, fmt.Errorf("failed to parse prefs: %w", err)
	}
	return p, nil
}

func (s *RedisStore) Save(ctx context.Context, p UIPreferences) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write prefs: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
