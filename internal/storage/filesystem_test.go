package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"booth/internal/domain"
)

func TestFileStoreWrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	key, err := store.Write(context.Background(), "./results/01.png", []byte("png"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "results/01.png" {
		t.Fatalf("key = %q", key)
	}
	data, err := os.ReadFile(filepath.Join(store.BasePath(), "results", "01.png"))
	if err != nil || string(data) != "png" {
		t.Fatalf("stored = %q, %v", data, err)
	}
}

func TestFileStoreWriteDataURI(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.WriteDataURI(context.Background(), "qr.png", domain.EncodeDataURI("image/png", []byte("qr"))); err != nil {
		t.Fatalf("WriteDataURI: %v", err)
	}
	path, _ := store.Path("qr.png")
	if data, _ := os.ReadFile(path); string(data) != "qr" {
		t.Fatalf("stored = %q", data)
	}
	if _, err := store.WriteDataURI(context.Background(), "bad.png", "nope"); !errors.Is(err, domain.ErrConversion) {
		t.Fatalf("expected ErrConversion, got %v", err)
	}
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "a/b.png", want: "a/b.png"},
		{key: "/abs/c.png", want: "abs/c.png"},
		{key: `win\d.png`, want: "win/d.png"},
		{key: "a/../b.png", want: "b.png"},
		{key: "../escape.png", wantErr: true},
		{key: "..", wantErr: true},
		{key: "  ", wantErr: true},
	}
	for _, tc := range tests {
		got, err := sanitizeKey(tc.key)
		if tc.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("sanitizeKey(%q) expected ErrValidation, got %q, %v", tc.key, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("sanitizeKey(%q) = %q, %v; want %q", tc.key, got, err, tc.want)
		}
	}
}
