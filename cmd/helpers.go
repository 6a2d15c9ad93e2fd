package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/hxxtsxxh/lumos.ai/internal/profile"
	"github.com/hxxtsxxh/lumos.ai/internal/runlog"
)

// initRunlog opens the configured run-log backend and runs migrations.
func initRunlog(ctx context.Context) (runlog.Store, error) {
	var st runlog.Store
	switch cfg.RunLog.Driver {
	case "sqlite":
		s, err := runlog.NewSQLite(cfg.RunLog.Path)
		if err != nil {
			return nil, err
		}
		st = s
	case "postgres":
		s, err := runlog.NewPostgres(ctx, cfg.RunLog.DatabaseURL, &runlog.PoolConfig{
			MaxConns: cfg.RunLog.Pool.MaxConns,
			MinConns: cfg.RunLog.Pool.MinConns,
		})
		if err != nil {
			return nil, err
		}
		st = s
	default:
		return nil, eris.Errorf("unsupported runlog driver: %s", cfg.RunLog.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// loadSnapshot reads the profile artifacts from the configured directory.
func loadSnapshot() (*profile.Snapshot, error) {
	snap, err := profile.Load(cfg.Artifacts.Dir)
	if err != nil {
		return nil, eris.Wrap(err, "load profile snapshot")
	}
	return snap, nil
}
