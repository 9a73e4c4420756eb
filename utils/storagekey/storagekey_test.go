package storagekey

import (
	"strings"
	"testing"
)

func TestGenerateKeepsStemAndExtension(t *testing.T) {
	key := Generate("holiday.png")

	if !strings.HasPrefix(key, "image/holiday-") {
		t.Fatalf("expected key to keep the file name stem, got %q", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected key to keep the extension, got %q", key)
	}
}

func TestGenerateUniqueForSameFileName(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := Generate("duplicate.jpg")
		if seen[key] {
			t.Fatalf("duplicate storage key generated: %q", key)
		}
		seen[key] = true
	}
}

func TestGenerateRandomKeyWithoutFileName(t *testing.T) {
	key := Generate("")

	if !strings.HasPrefix(key, "image/") {
		t.Fatalf("expected key under the image prefix, got %q", key)
	}
	if strings.Contains(key, ".") {
		t.Fatalf("expected no extension for a nameless upload, got %q", key)
	}
	if key == Generate("") {
		t.Fatal("expected random keys to differ")
	}
}

func TestGenerateStripsDirectories(t *testing.T) {
	key := Generate("../../etc/passwd.png")

	if strings.Contains(strings.TrimPrefix(key, "image/"), "/") {
		t.Fatalf("expected path components to be stripped, got %q", key)
	}
}
