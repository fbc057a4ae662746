package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftops/authcore/modules/authz"
	"github.com/shiftops/authcore/pkg/config"
	"github.com/shiftops/authcore/pkg/credential"
	"github.com/shiftops/authcore/pkg/entitlement"
	"github.com/shiftops/authcore/pkg/gate"
	"github.com/shiftops/authcore/pkg/httpserver"
	"github.com/shiftops/authcore/pkg/logger"
	"github.com/shiftops/authcore/pkg/pg"
	"github.com/shiftops/authcore/pkg/redis"
	"github.com/shiftops/authcore/pkg/vault"
)

type serviceConfig struct {
	CatalogPath  string        `env:"FEATURE_CATALOG_PATH" envDefault:"features.yml"`
	CacheBackend string        `env:"ENTITLEMENT_CACHE" envDefault:"memory"` // memory or redis
	CacheTTL     time.Duration `env:"ENTITLEMENT_CACHE_TTL" envDefault:"5m"`
	PastDueGrace bool          `env:"SUBSCRIPTION_PAST_DUE_GRACE" envDefault:"false"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.NewFromConfig(logCfg, logger.WithContextExtractors(gate.LoggerExtractor()))
	logger.SetAsDefault(log)

	var svcCfg serviceConfig
	config.MustLoad(&svcCfg)
	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	var vaultCfg vault.Config
	config.MustLoad(&vaultCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	keyring, err := vault.NewKeyringFromConfig(vaultCfg)
	if err != nil {
		log.ErrorContext(ctx, "failed to build vault keyring", logger.Error(err))
		os.Exit(1)
	}

	catalog := entitlement.NewFileCatalog(svcCfg.CatalogPath)
	store := entitlement.NewPGStore(pool)

	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	resolverOpts := []entitlement.ResolverOption{
		entitlement.WithCacheTTL(svcCfg.CacheTTL),
		entitlement.WithLogger(log),
	}
	if svcCfg.PastDueGrace {
		resolverOpts = append(resolverOpts, entitlement.WithPastDueGrace())
	}
	if svcCfg.CacheBackend == "redis" {
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			log.ErrorContext(ctx, "failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()
		resolverOpts = append(resolverOpts, entitlement.WithCache(entitlement.NewRedisCache(client, "")))
		readiness = append(readiness, redis.Healthcheck(client))
	}

	resolver, err := entitlement.NewResolver(ctx, store, catalog, resolverOpts...)
	if err != nil {
		log.ErrorContext(ctx, "failed to build entitlement resolver", logger.Error(err))
		os.Exit(1)
	}
	defer resolver.Close()

	manager, err := entitlement.NewManager(ctx, store, catalog)
	if err != nil {
		log.ErrorContext(ctx, "failed to build entitlement manager", logger.Error(err))
		os.Exit(1)
	}

	creds := credential.NewService(
		vault.New(keyring),
		credential.NewPGStore(pool),
		credential.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, readiness...))
	r.Mount("/", authz.Router(authz.RouterOptions{
		Resolver:    resolver,
		Manager:     manager,
		Credentials: creds,
		Logger:      log,
	}))

	if err := httpserver.New(httpCfg, log).Run(ctx, r); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}
