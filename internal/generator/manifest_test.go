package generator

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestManifestRoundTrip(t *testing.T) {
	writer := newMemoryWriter()
	manifest := newManifest(uuid.New())
	manifest.record("/2024/05/hello/", ManifestEntry{
		Source:   "posts/hello.md",
		Output:   "2024/05/hello/index.html",
		Checksum: "abc123",
		Category: string(categoryPage),
	})

	if err := persistManifest(context.Background(), writer, manifest); err != nil {
		t.Fatalf("persistManifest: %v", err)
	}

	loaded := loadManifest(context.Background(), writer)
	if loaded.BuildID != manifest.BuildID {
		t.Fatalf("expected build ID %s, got %s", manifest.BuildID, loaded.BuildID)
	}
	if !loaded.unchanged("/2024/05/hello/", "abc123") {
		t.Fatalf("expected recorded entry to report unchanged")
	}
	if loaded.unchanged("/2024/05/hello/", "different") {
		t.Fatalf("changed checksum must not report unchanged")
	}
	if loaded.unchanged("/missing/", "abc123") {
		t.Fatalf("unknown route must not report unchanged")
	}
}

func TestLoadManifest_MissingOrCorrupt(t *testing.T) {
	writer := newMemoryWriter()

	manifest := loadManifest(context.Background(), writer)
	if len(manifest.Entries) != 0 {
		t.Fatalf("missing manifest must load empty, got %d entries", len(manifest.Entries))
	}

	writer.files[manifestFilename] = []byte("{not json")
	manifest = loadManifest(context.Background(), writer)
	if len(manifest.Entries) != 0 {
		t.Fatalf("corrupt manifest must load empty, got %d entries", len(manifest.Entries))
	}

	writer.files[manifestFilename] = []byte(`{"version": 99, "entries": {"/x/": {"output": "x"}}}`)
	manifest = loadManifest(context.Background(), writer)
	if len(manifest.Entries) != 0 {
		t.Fatalf("incompatible manifest version must load empty, got %d entries", len(manifest.Entries))
	}
}

func TestManifestCarryOver(t *testing.T) {
	previous := newManifest(uuid.New())
	previous.record("/kept/", ManifestEntry{Output: "kept/index.html", Checksum: "k1"})

	next := newManifest(uuid.New())
	next.carryOver("/kept/", previous)
	next.carryOver("/absent/", previous)

	if _, ok := next.Entries["/kept/"]; !ok {
		t.Fatalf("expected kept entry to carry over")
	}
	if _, ok := next.Entries["/absent/"]; ok {
		t.Fatalf("absent routes must not appear in the new manifest")
	}
}
