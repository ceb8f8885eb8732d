package finance

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file":   func(t *testing.T) Store { return NewFileStore(filepath.Join(t.TempDir(), "profile")) },
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			if _, ok, err := s.Read(ctx, "financeData"); err != nil || ok {
				t.Fatalf("Read() of a missing key = %v, %v; want false, nil", ok, err)
			}

			data := []byte(`{"users": []}`)
			if err := s.Write(ctx, "financeData", data); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			data[0] = 'X' // the store keeps its own copy.

			got, ok, err := s.Read(ctx, "financeData")
			if err != nil || !ok {
				t.Fatalf("Read() = %v, %v; want true, nil", ok, err)
			}
			if string(got) != `{"users": []}` {
				t.Errorf("Read() = %s, want the written value", got)
			}

			if err := s.Write(ctx, "financeData", []byte(`{}`)); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			got, _, _ = s.Read(ctx, "financeData")
			if string(got) != `{}` {
				t.Errorf("Read() after overwrite = %s, want {}", got)
			}

			if _, ok, _ := s.Read(ctx, "other"); ok {
				t.Error("keys are not independent")
			}
		})
	}
}

func TestFileStore_Path(t *testing.T) {
	f := NewFileStore("/var/lib/fin")
	got, err := f.Path("financeData")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if want := filepath.Join("/var/lib/fin", "financeData.json"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}

	for _, key := range []string{"", ".", "..", "../escape", "a/b"} {
		if _, err := f.Path(key); err == nil {
			t.Errorf("Path(%q) succeeded, want an error", key)
		}
		if err := f.Write(context.Background(), key, nil); !errors.Is(err, ErrStorageUnavailable) {
			t.Errorf("Write(%q) error = %v, want %v", key, err, ErrStorageUnavailable)
		}
	}
}

func TestFileStore_NoLeftovers(t *testing.T) {
	dir := t.TempDir()
	f := NewFileStore(dir)
	for range 3 {
		if err := f.Write(context.Background(), "financeData", []byte(`{}`)); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "financeData.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("folder contains %v, want only financeData.json", names)
	}
}

func TestFileStore_Unavailable(t *testing.T) {
	// a regular file where the folder should be.
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	f := NewFileStore(filepath.Join(parent, "profile"))
	if err := f.Write(context.Background(), "financeData", []byte(`{}`)); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Write() error = %v, want %v", err, ErrStorageUnavailable)
	}
	if _, _, err := f.Read(context.Background(), "financeData"); !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("Read() error = %v, want %v", err, ErrStorageUnavailable)
	}
}
