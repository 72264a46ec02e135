package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalPutDeleteURL(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	url, err := store.Put(ctx, "league-logos/abc.png", []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if want := "http://localhost:8080/uploads/league-logos/abc.png"; url != want {
		t.Errorf("Put url = %q, want %q", url, want)
	}

	data, err := os.ReadFile(filepath.Join(root, "league-logos", "abc.png"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored bytes = %q", data)
	}

	if err := store.Delete(ctx, "league-logos/abc.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "league-logos", "abc.png")); !os.IsNotExist(err) {
		t.Errorf("file still present after Delete")
	}

	// Missing key is not an error.
	if err := store.Delete(ctx, "league-logos/missing.png"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
}

func TestLocalRejectsEmptyKey(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "http://x")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := store.Put(context.Background(), "", []byte("x"), ""); err == nil {
		t.Fatal("Put with empty key succeeded")
	}
}

func TestLocalTraversalStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "http://x")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	if _, err := store.Put(context.Background(), "../escape.txt", []byte("x"), ""); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); err != nil {
		t.Errorf("traversal key not confined to root: %v", err)
	}
}
