package wiring

import (
	"github.com/felixgeelhaar/juggler/internal/infrastructure/config"
	"github.com/felixgeelhaar/juggler/pkg/storage"
)

// Workspace bundles the configuration and snapshot storage for a root dir.
type Workspace struct {
	Root   string
	Config *config.Config
	Repo   *storage.SnapshotRepository
}

// NewWorkspace loads root/juggler.yaml, falling back to defaults when the
// file is absent.
func NewWorkspace(root string) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	return &Workspace{
		Root:   root,
		Config: cfg,
		Repo:   storage.NewSnapshotRepository(),
	}, nil
}
