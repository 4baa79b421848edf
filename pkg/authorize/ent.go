package authorize

import (
	"context"
	"log/slog"
	"sync/atomic"

	psqlwatcher "github.com/IguteChung/casbin-psql-watcher"
	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	entadapter "github.com/casbin/ent-adapter"
)

// policyLoadHealthy tracks the health state of Casbin policy loading.
// When policy reload fails, this is set to false to trigger health check failures.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy returns true if the Casbin policy is in a healthy state.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

// CleanupFunc is a function that cleans up resources.
type CleanupFunc func(ctx context.Context)

// LoadModel reads the model at path, or DefaultModel when path is empty.
func LoadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(DefaultModel)
	}
	return model.NewModelFromFile(path)
}

// NewEnforcer creates a Casbin DistributedEnforcer backed by the ent adapter
// on dsn. With cfg.PolicySyncEnabled a Postgres LISTEN/NOTIFY watcher reloads
// policy when another instance changes it.
func NewEnforcer(cfg Config, dsn string) (*casbin.DistributedEnforcer, CleanupFunc, error) {
	m, err := LoadModel(cfg.CasbinModelPath)
	if err != nil {
		return nil, nil, err
	}

	a, err := entadapter.NewAdapter("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	e, err := casbin.NewDistributedEnforcer(m, a)
	if err != nil {
		return nil, nil, err
	}
	e.EnableAutoSave(true)
	e.EnableEnforce(true)

	if !cfg.PolicySyncEnabled {
		return e, func(context.Context) {}, nil
	}

	w, err := psqlwatcher.NewWatcherWithConnString(context.Background(), dsn, psqlwatcher.Option{
		Channel: "casbin_policy_update",
	})
	if err != nil {
		return nil, nil, err
	}

	err = w.SetUpdateCallback(func(msg string) {
		slog.Debug("casbin policy update received", "message", msg)
		if err := e.LoadPolicy(); err != nil {
			slog.Error("failed to reload policy after watcher notification", "error", err)
			policyLoadHealthy.Store(false)
		} else {
			policyLoadHealthy.Store(true)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	if err := e.SetWatcher(w); err != nil {
		return nil, nil, err
	}

	cleanup := func(ctx context.Context) {
		slog.Info("closing casbin policy watcher")
		w.Close()
		slog.Info("casbin enforcer cleanup completed")
	}

	return e, cleanup, nil
}
