package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/uploads")
	ctx := context.Background()

	url, err := s.Save(ctx, "covers/123-abc.jpg", []byte("jpeg bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/covers/123-abc.jpg" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "covers", "123-abc.jpg"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Errorf("saved data = %q", data)
	}

	if err := s.Delete(ctx, "covers/123-abc.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "covers", "123-abc.jpg")); !os.IsNotExist(err) {
		t.Error("file should be gone after Delete")
	}

	// Deleting again is not an error
	if err := s.Delete(ctx, "covers/123-abc.jpg"); err != nil {
		t.Errorf("Delete of missing object: %v", err)
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads")
	ctx := context.Background()

	for _, key := range []string{
		"../outside.jpg",
		"covers/../../etc/passwd",
		"/absolute/path.jpg",
		".",
		"",
	} {
		if _, err := s.Save(ctx, key, []byte("x"), "image/jpeg"); err == nil {
			t.Errorf("Save(%q) should be rejected", key)
		}
		if err := s.Delete(ctx, key); err == nil {
			t.Errorf("Delete(%q) should be rejected", key)
		}
	}
}

func TestLocalStorageTrimsPublicURLSlash(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "/uploads/")

	url, err := s.Save(context.Background(), "covers/x.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/covers/x.png" {
		t.Errorf("url = %q", url)
	}
}
