package settings

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func TestInt(t *testing.T) {
	tests := []struct {
		raw  Value
		want int
	}{
		{"32", 32},
		{"40px", 40},
		{" 25 ", 25},
		{"", 7},
		{"abc", 7},
		{true, 7},
		{"-3", -3},
	}
	for _, tt := range tests {
		s := NewMemory()
		if err := s.Set(context.Background(), Width, tt.raw); err != nil {
			t.Fatal(err)
		}
		if got := Int(s, Width, 7); got != tt.want {
			t.Errorf("Int(%v) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestBoolAndString(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	_ = s.Set(ctx, Shown, true)
	_ = s.Set(ctx, Remember, "true")
	_ = s.Set(ctx, Token, "abc")

	if !Bool(s, Shown) {
		t.Error("Bool(shown) should be true")
	}
	if !Bool(s, Remember) {
		t.Error("string \"true\" should read as true")
	}
	if Bool(s, Token) {
		t.Error("non-boolean string should read as false")
	}
	if Bool(s, Icons) {
		t.Error("unset key should read as false")
	}
	if got := String(s, Shown); got != "true" {
		t.Errorf("String(shown) = %q, want \"true\"", got)
	}
}

func TestMemoryStore_RejectsOtherTypes(t *testing.T) {
	s := NewMemory()
	err := s.Set(context.Background(), Width, 32)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Set(int) error = %v, want ErrInvalidValue", err)
	}
}

func TestSeedDefaults_KeepsExisting(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	if err := s.Set(ctx, Hotkeys, "ctrl+t"); err != nil {
		t.Fatal(err)
	}

	if err := SeedDefaults(ctx, s); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	if got := String(s, Hotkeys); got != "ctrl+t" {
		t.Errorf("hotkeys = %q, existing value should survive seeding", got)
	}
	for _, key := range Keys() {
		if s.Get(key) == nil {
			t.Errorf("key %s not seeded", key)
		}
	}
}

type failingStore struct{ *MemoryStore }

func (f failingStore) SetIfNull(ctx context.Context, key Key, value Value) error {
	if key == Width {
		return errors.New("disk full")
	}
	return f.MemoryStore.SetIfNull(ctx, key, value)
}

func TestSeedDefaults_ReturnsFailure(t *testing.T) {
	err := SeedDefaults(context.Background(), failingStore{NewMemory()})
	if err == nil {
		t.Fatal("expected seeding error")
	}
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.db")

	s, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := SeedDefaults(ctx, s); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	if err := s.Set(ctx, Shown, true); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, Token, "secret"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if !Bool(reopened, Shown) {
		t.Error("shown should persist as true")
	}
	if got := String(reopened, Token); got != "secret" {
		t.Errorf("token = %q, want secret", got)
	}
	if got := String(reopened, Width); got != "32" {
		t.Errorf("width = %q, want seeded default 32", got)
	}
}

func TestSQLiteStore_SetIfNullDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Set(ctx, Icons, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetIfNull(ctx, Icons, true); err != nil {
		t.Fatal(err)
	}
	if Bool(s, Icons) {
		t.Error("SetIfNull overwrote an existing value")
	}
}

func TestSQLiteStore_ReseedsUndecodableValue(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.db")

	s, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := SeedDefaults(ctx, s); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE settings SET value = ? WHERE key = ?`, "{not json", string(Width)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE settings SET value = ? WHERE key = ?`, `{"a":1}`, string(Hotkeys)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLite(ctx, path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Get(Width) != nil || reopened.Get(Hotkeys) != nil {
		t.Fatal("undecodable values should load as unset")
	}
	if err := SeedDefaults(ctx, reopened); err != nil {
		t.Fatal(err)
	}
	if got := String(reopened, Width); got != "32" {
		t.Errorf("width = %q, want reseeded 32", got)
	}
	if got := String(reopened, Hotkeys); got != "ctrl+b,alt+b" {
		t.Errorf("hotkeys = %q, want reseeded default", got)
	}
	reopened.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var raw string
	if err := db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, string(Width)).Scan(&raw); err != nil {
		t.Fatal(err)
	}
	if raw != `"32"` {
		t.Errorf("stored width = %s, want \"32\"", raw)
	}
}
