// Package bootstrap собирает хранилища и сервисы по конфигу.
// Используется и HTTP-сервером, и утилитой seqctl.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-registry/internal/entities"
	"project-registry/internal/listeners"
	"project-registry/internal/repositories"
	"project-registry/internal/repositories/memory"
	"project-registry/internal/services"
	"project-registry/pkg/clock"
	"project-registry/pkg/config"
	"project-registry/pkg/database/postgresql"
	"project-registry/pkg/eventbus"
	"project-registry/pkg/filestorage"
	"project-registry/pkg/validation"
)

type Components struct {
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	Counters    repositories.CounterStoreInterface
	Attachments repositories.AttachmentStoreInterface

	Allocator    *services.SequenceAllocator
	ProjectCodes services.ProjectCodeServiceInterface
	Versions     services.AttachmentVersionServiceInterface
	Validator    *validation.CustomValidator
	Bus          *eventbus.Bus
}

// Build подключается к хранилищам, которые нужны выбранному бэкенду.
// Вложения всегда живут в Postgres, кроме бэкенда memory.
func Build(ctx context.Context, cfg *config.Config, clk clock.Clock, logger *zap.Logger) (*Components, error) {
	c := &Components{Validator: validation.New(), Bus: eventbus.New(logger)}
	listeners.NewAuditListener(logger).Register(c.Bus)

	switch cfg.Sequence.Backend {
	case config.BackendMemory:
		counters := memory.NewCounterStore()
		c.Counters = counters
		c.Attachments = memory.NewAttachmentStore(counters)
		logger.Warn("используется хранилище в памяти: значения не переживут перезапуск")

	case config.BackendPostgres, config.BackendRedis:
		pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		c.Pool = pool

		sequenceRepo := repositories.NewSequenceRepository()
		c.Attachments = repositories.NewPostgresAttachmentStore(
			repositories.NewTxManager(pool, cfg.Postgres.Isolation),
			sequenceRepo,
			repositories.NewAttachmentVersionRepository(pool),
		)

		if cfg.Sequence.Backend == config.BackendRedis {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Address,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if _, err := client.Ping(ctx).Result(); err != nil {
				c.Close()
				return nil, fmt.Errorf("не удалось подключиться к Redis %s: %w", cfg.Redis.Address, err)
			}
			c.Redis = client
			// версии вложений считаются в той же транзакции, что и загрузка, т.е. в Postgres
			c.Counters = repositories.NewKeyRoutedCounterStore(
				repositories.NewRedisCounterStore(client),
				entities.AttachmentPartitionPrefix,
				repositories.NewPostgresCounterStore(pool, sequenceRepo, cfg.Sequence.Strategy),
			)
		} else {
			c.Counters = repositories.NewPostgresCounterStore(pool, sequenceRepo, cfg.Sequence.Strategy)
		}

	default:
		return nil, fmt.Errorf("неизвестный бэкенд %q", cfg.Sequence.Backend)
	}

	policy := services.RetryPolicyFromConfig(cfg.Sequence)
	c.Allocator = services.NewSequenceAllocator(c.Counters, policy, cfg.Sequence.Timeout, logger)
	c.ProjectCodes = services.NewProjectCodeService(c.Allocator, clk, c.Validator, c.Bus, logger)
	c.Versions = services.NewAttachmentVersionService(
		c.Attachments,
		filestorage.NewPathBuilder(cfg.Upload.URLPrefix),
		clk,
		policy,
		cfg.Sequence.Timeout,
		c.Validator,
		c.Bus,
		logger,
	)

	logger.Info("хранилища инициализированы",
		zap.String("backend", c.Counters.Backend()),
		zap.String("isolation", cfg.Postgres.Isolation),
	)
	return c, nil
}

// Close дожидается слушателей событий и закрывает соединения.
func (c *Components) Close() {
	if c.Bus != nil {
		c.Bus.Wait()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
