package prefs

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested"))

	p, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}
	if !reflect.DeepEqual(p, UIPreferences{}) {
		t.Errorf("missing file should give zero prefs, got %+v", p)
	}

	want := UIPreferences{
		Recipes:    TablePrefs{SortKey: "name", SortDesc: true, HiddenColumns: []string{"cuisine"}, ActiveColumn: "prep"},
		ActiveList: "list-1",
		ActiveTab:  3,
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load = %+v, want %+v", got, want)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := os.WriteFile(s.Path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond, MaxRetries: -1})
	s := NewRedisStoreWithClient(client, "")
	defer s.Close()

	if s.key != "mise:default:ui_prefs" {
		t.Errorf("key = %q", s.key)
	}
	if _, err := s.Load(context.Background()); err == nil {
		t.Error("expected connection error")
	}
	if _, err := NewRedisStore("127.0.0.1:1", "", 0, "kitchen"); err == nil {
		t.Error("expected ping failure")
	}
}
