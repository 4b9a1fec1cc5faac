package wiring

import (
	"io"
	"log/slog"

	"github.com/felixgeelhaar/juggler/internal/infrastructure/logging"
	"github.com/felixgeelhaar/juggler/pkg/application"
	"github.com/felixgeelhaar/juggler/pkg/domain/schedule"
	"github.com/felixgeelhaar/juggler/pkg/engine/taskjuggler"
)

// AppServices exposes the application layer wired to a workspace.
type AppServices struct {
	Workspace *Workspace
	Engine    schedule.Engine
	Scheduler *application.SchedulerService
	Logger    *slog.Logger
}

// BuildAppServices wires the TaskJuggler engine and scheduler for a root
// directory. Logs go to logOut.
func BuildAppServices(root string, logOut io.Writer) (*AppServices, error) {
	workspace, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}
	cfg := workspace.Config

	engine := taskjuggler.New(cfg.EngineOptions())
	scheduler := application.NewSchedulerService(engine, cfg.Calendar, cfg.Engine.Timeout)

	return &AppServices{
		Workspace: workspace,
		Engine:    engine,
		Scheduler: scheduler,
		Logger:    logging.New(cfg.Log.Level, cfg.Log.Format, logOut),
	}, nil
}
