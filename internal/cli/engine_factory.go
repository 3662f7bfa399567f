package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/wayfare"
	"github.com/aretw0/wayfare/internal/adapters/file"
	"github.com/aretw0/wayfare/internal/config"
	"github.com/aretw0/wayfare/pkg/adapters/memory"
	"github.com/aretw0/wayfare/pkg/adapters/redis"
	"github.com/aretw0/wayfare/pkg/observability"
	"github.com/aretw0/wayfare/pkg/persistence/middleware"
	"github.com/aretw0/wayfare/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// BuildEngine wires a Wayfare engine from configuration: the store driver,
// optional encryption at rest, the distributed lock for redis, metrics on reg
// and debug logging hooks. The returned cleanup releases store connections.
func BuildEngine(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*wayfare.Engine, func(), error) {
	cleanup := func() {}

	store, locker, closeStore, err := buildStore(cfg)
	if err != nil {
		return nil, cleanup, err
	}
	if closeStore != nil {
		cleanup = closeStore
	}

	key, err := cfg.EncryptionKey()
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	if key != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		}))
	}

	opts := []wayfare.Option{
		wayfare.WithLogger(logger),
		wayfare.WithStore(store),
		wayfare.WithMetrics(observability.NewMetrics(reg)),
		wayfare.WithLifecycleHooks(observability.LoggingHooks(logger)),
	}
	if len(cfg.Vocabulary) > 0 {
		opts = append(opts, wayfare.WithCities(cfg.Vocabulary...))
	}
	if locker != nil {
		opts = append(opts, wayfare.WithLocker(locker, cfg.Session.LockTTL))
	}

	engine, err := wayfare.New(opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, cleanup, nil
}

func buildStore(cfg config.Config) (ports.ConversationStore, ports.DistributedLocker, func(), error) {
	switch cfg.Store.Driver {
	case "", "memory":
		return memory.NewStore(), nil, nil, nil
	case "file":
		return file.New(cfg.Store.Path), nil, nil, nil
	case "redis":
		rc := cfg.Store.Redis
		var opts []redis.Option
		if rc.TTL > 0 {
			opts = append(opts, redis.WithTTL(rc.TTL))
		}
		if rc.Prefix != "" {
			opts = append(opts, redis.WithPrefix(rc.Prefix))
		}
		store := redis.New(rc.Addr, rc.Password, rc.DB, opts...)
		lockPrefix := rc.Prefix
		if lockPrefix == "" {
			lockPrefix = "wayfare:"
		}
		locker := redis.NewLocker(store.Client(), lockPrefix)
		return store, locker, func() { _ = store.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
