package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/moore/pkg/adapters/bolt"
	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/adapters/redis"
	"github.com/aretw0/moore/pkg/persistence/middleware"
	"github.com/aretw0/moore/pkg/ports"
	"github.com/aretw0/moore/pkg/registry"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit bounds the state history kept per session.
const defaultHistoryLimit = 256

// sessionBackend is a session store plus what is needed to share it across processes.
type sessionBackend struct {
	Store  ports.StateStore
	Locker ports.DistributedLocker
	Close  func() error
}

func addStoreFlags(cmd *cobra.Command, defaultDB string) {
	cmd.Flags().String("db", defaultDB, "Bolt database file for sessions")
	cmd.Flags().String("redis", "", "Redis address for sessions (overrides --db)")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database number")
	cmd.Flags().Duration("session-ttl", 0, "Expire idle sessions after this duration (redis only, 0 disables)")
	cmd.Flags().Int("history", defaultHistoryLimit, "Maximum states kept in a session history (0 keeps all)")
}

// openStore selects redis, bolt or memory, in that order, and wraps the store with
// integrity checks against tables and a history limit.
func openStore(cmd *cobra.Command, tables *registry.Registry, logger *slog.Logger) (*sessionBackend, error) {
	redisAddr, _ := cmd.Flags().GetString("redis")
	dbPath, _ := cmd.Flags().GetString("db")
	history, _ := cmd.Flags().GetInt("history")

	var backend sessionBackend
	var raw ports.StateStore

	switch {
	case redisAddr != "":
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")

		store := redis.New(redisAddr, password, db, redis.WithTTL(ttl))
		if err := store.Client().Ping(cmd.Context()).Err(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisAddr, err)
		}
		raw = store
		backend.Locker = redis.NewLocker(store.Client(), store.Prefix())
		backend.Close = store.Close
		logger.Info("Using redis session store", "address", redisAddr, "ttl", ttl)

	case dbPath != "":
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
		store, err := bolt.Open(dbPath)
		if err != nil {
			return nil, err
		}
		raw = store
		backend.Close = store.Close
		logger.Info("Using bolt session store", "path", dbPath)

	default:
		raw = memory.NewStore()
		backend.Close = func() error { return nil }
		logger.Info("Using in-memory session store")
	}

	backend.Store = middleware.Chain(raw,
		middleware.NewIntegrityMiddleware(tables),
		middleware.NewHistoryLimitMiddleware(history),
	)
	return &backend, nil
}

// lockTTL is long enough for any single CLI or HTTP operation.
const lockTTL = 10 * time.Second
