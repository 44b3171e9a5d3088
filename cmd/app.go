package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/workpunch/punch/internal/attendance"
	"github.com/workpunch/punch/internal/config"
	"github.com/workpunch/punch/internal/connectivity"
	"github.com/workpunch/punch/internal/queue"
	"github.com/workpunch/punch/internal/remote"
	"github.com/workpunch/punch/internal/store"
	"github.com/workpunch/punch/internal/syncer"
)

// app wires the engine together for one command invocation.
type app struct {
	cfg     config.Config
	store   *store.Store
	queue   *queue.Queue
	service *attendance.Service
	monitor *connectivity.Monitor
	syncer  *syncer.Syncer
	log     *slog.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir, err = store.BaseDir()
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(filepath.Join(dataDir, "punch.db"))
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client := remote.NewClient(ctx, remote.Config{
		BaseURL:      cfg.Remote.BaseURL,
		TokenURL:     cfg.Remote.TokenURL,
		ClientID:     cfg.Remote.ClientID,
		ClientSecret: cfg.Remote.ClientSecret,
	})

	monitor := connectivity.NewMonitor(
		client.Ping,
		time.Duration(cfg.Sync.ProbeIntervalSeconds)*time.Second,
		cfg.Sync.OfflineThreshold,
		log,
	)

	q := queue.New(st, cfg.Sync.QueueCap, log)

	return &app{
		cfg:     cfg,
		store:   st,
		queue:   q,
		service: attendance.NewService(st, q, monitor, log),
		monitor: monitor,
		syncer:  syncer.New(st, q, client, monitor, log),
		log:     log,
	}, nil
}

func (a *app) Close() {
	_ = a.store.Close()
}

// user resolves the acting user: --user flag, then config.
func (a *app) user() string {
	if flagUser != "" {
		return flagUser
	}
	return a.cfg.DefaultUser
}
