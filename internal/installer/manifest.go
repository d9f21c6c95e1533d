package installer

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/Cyclone1070/mentat/internal/digest"
	"github.com/xeipuuv/gojsonschema"
)

// manifestSchema accepts an object mapping artifact keys to SHA-256 hex digests.
const manifestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "propertyNames": {"minLength": 1},
  "additionalProperties": {
    "type": "string",
    "pattern": "^(sha256:)?[0-9a-fA-F]{64}$"
  }
}`

var manifestSchemaLoader = gojsonschema.NewStringLoader(manifestSchema)

// Manifest maps "{artifact}-{platform}" keys to lowercase hex SHA-256 digests.
// A nil *Manifest is valid and has no entries.
type Manifest struct {
	entries map[string]string
}

// NewManifest builds a manifest from already trusted entries, normalising digests.
// Entries whose digest is malformed are dropped.
func NewManifest(entries map[string]string) *Manifest {
	m := &Manifest{entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		if d, ok := digest.Normalize(v); ok {
			m.entries[k] = d
		}
	}
	return m
}

// LoadManifest reads a checksum manifest from path.
// A missing file yields a nil manifest and no error.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ManifestError{Path: path, Reason: "read failed"}
	}
	return ParseManifest(path, data)
}

// ParseManifest validates data against the manifest schema and normalises it.
func ParseManifest(path string, data []byte) (*Manifest, error) {
	result, err := gojsonschema.Validate(manifestSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &ManifestError{Path: path, Reason: "not valid JSON"}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			reasons = append(reasons, e.String())
		}
		return nil, &ManifestError{Path: path, Reason: strings.Join(reasons, "; ")}
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ManifestError{Path: path, Reason: "not valid JSON"}
	}
	if _, ok := raw[""]; ok {
		return nil, &ManifestError{Path: path, Reason: "empty artifact key"}
	}
	return NewManifest(raw), nil
}

// Expected returns the digest recorded for key.
func (m *Manifest) Expected(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	d, ok := m.entries[key]
	return d, ok
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// ArtifactKey is the manifest key for an artifact on a platform.
func ArtifactKey(name string, p Platform) string {
	return name + "-" + string(p)
}
