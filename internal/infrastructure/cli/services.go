package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/logging"
	"github.com/felixgeelhaar/juggler/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/juggler/pkg/domain/graph"
)

func loadServices(root string) (*wiring.AppServices, error) {
	services, err := wiring.BuildAppServices(root, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	return services, nil
}

func getProjectRoot() (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return "", fmt.Errorf("project path %q: %w", abs, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("project path %q is not a directory", abs)
		}
		return abs, nil
	}
	return os.Getwd()
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := getProjectRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}

// commandContext returns the command's context carrying the service logger.
func commandContext(cmd *cobra.Command, services *wiring.AppServices) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, services.Logger)
}

func loadSnapshot(services *wiring.AppServices, path string) (*graph.Snapshot, error) {
	snap, err := services.Workspace.Repo.LoadSnapshot(path)
	if err != nil {
		return nil, MapError(err)
	}
	return snap, nil
}
