package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFilename = ".static-manifest.json"
	manifestVersion  = 1
)

// Manifest records the content hash of every artifact produced by a build so
// the next run can skip pages whose inputs did not change.
type Manifest struct {
	Version     int                      `json:"version"`
	BuildID     uuid.UUID                `json:"build_id"`
	GeneratedAt time.Time                `json:"generated_at"`
	Entries     map[string]ManifestEntry `json:"entries"`
}

// ManifestEntry describes a single generated artifact.
type ManifestEntry struct {
	Source     string    `json:"source,omitempty"`
	Output     string    `json:"output"`
	Checksum   string    `json:"checksum"`
	Category   string    `json:"category"`
	RenderedAt time.Time `json:"rendered_at"`
}

func newManifest(buildID uuid.UUID) *Manifest {
	return &Manifest{
		Version:     manifestVersion,
		BuildID:     buildID,
		GeneratedAt: time.Now().UTC(),
		Entries:     map[string]ManifestEntry{},
	}
}

// loadManifest reads the previous build manifest. A missing, unreadable, or
// incompatible manifest yields an empty one so a corrupt file forces a full
// rebuild instead of failing the run.
func loadManifest(ctx context.Context, writer ArtifactWriter) *Manifest {
	data, err := writer.ReadFile(ctx, manifestFilename)
	if err != nil || len(data) == 0 {
		return newManifest(uuid.Nil)
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil || manifest.Version != manifestVersion {
		return newManifest(uuid.Nil)
	}
	if manifest.Entries == nil {
		manifest.Entries = map[string]ManifestEntry{}
	}
	return &manifest
}

// unchanged reports whether the artifact at route already carries checksum.
func (m *Manifest) unchanged(route, checksum string) bool {
	if m == nil || checksum == "" {
		return false
	}
	entry, ok := m.Entries[route]
	return ok && entry.Checksum == checksum
}

func (m *Manifest) record(route string, entry ManifestEntry) {
	if m.Entries == nil {
		m.Entries = map[string]ManifestEntry{}
	}
	m.Entries[route] = entry
}

// carryOver copies the previous entry for route so skipped pages survive in
// the new manifest.
func (m *Manifest) carryOver(route string, previous *Manifest) {
	if previous == nil {
		return
	}
	if entry, ok := previous.Entries[route]; ok {
		m.record(route, entry)
	}
}

// routes returns the manifest keys in stable order.
func (m *Manifest) routes() []string {
	keys := make([]string, 0, len(m.Entries))
	for key := range m.Entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func persistManifest(ctx context.Context, writer ArtifactWriter, manifest *Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        manifestFilename,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
	})
}
