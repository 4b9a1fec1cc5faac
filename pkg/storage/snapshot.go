// Package storage reads project graph snapshots from disk and writes the
// scheduled result back out.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

// ErrInvalidSnapshot is returned when a snapshot file fails schema validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// SchemaError lists the schema violations of a snapshot file.
type SchemaError struct {
	Path   string
	Issues []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid snapshot %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

// Is allows errors.Is(err, ErrInvalidSnapshot) for every SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSnapshot
}

// SnapshotRepository loads and saves snapshot files. Files ending in .json
// are JSON; everything else is YAML.
type SnapshotRepository struct {
	retryConfig retry.Config
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// LoadSnapshot reads, validates and decodes the snapshot at path.
func (r *SnapshotRepository) LoadSnapshot(path string) (*graph.Snapshot, error) {
	retryer := retry.New[[]byte](r.retryConfig)

	data, err := retryer.Do(context.Background(), func(ctx context.Context) ([]byte, error) {
		// #nosec G304 -- path is chosen by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return DecodeSnapshot(path, data)
}

// DecodeSnapshot validates data against the snapshot schema and decodes it.
// path only selects the format and names the file in errors.
func DecodeSnapshot(path string, data []byte) (*graph.Snapshot, error) {
	isJSON := isJSONPath(path)

	var documentLoader gojsonschema.JSONLoader
	if isJSON {
		documentLoader = gojsonschema.NewBytesLoader(data)
	} else {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
		}
		documentLoader = gojsonschema.NewGoLoader(doc)
	}

	result, err := gojsonschema.Validate(snapshotSchemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate snapshot %s: %w", path, err)
	}
	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return nil, &SchemaError{Path: path, Issues: issues}
	}

	var snap graph.Snapshot
	if isJSON {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", path, err)
	}

	for _, p := range snap.Projects {
		if p.Calendar == nil {
			continue
		}
		if err := p.Calendar.Validate(); err != nil {
			return nil, fmt.Errorf("project %s calendar: %w", p.ID, err)
		}
	}

	return &snap, nil
}

// SaveSnapshot writes snap, computed fields included, to path.
func (r *SnapshotRepository) SaveSnapshot(path string, snap *graph.Snapshot) error {
	var (
		data []byte
		err  error
	)
	if isJSONPath(path) {
		data, err = json.MarshalIndent(snap, "", "  ")
	} else {
		data, err = yaml.Marshal(snap)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

func isJSONPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
