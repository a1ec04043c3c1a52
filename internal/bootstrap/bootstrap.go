// Package bootstrap wires configuration into the assistant's runtime
// dependencies for the worker manager and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bitsa-assistant/internal/assistant/generator"
	"bitsa-assistant/internal/assistant/guard"
	"bitsa-assistant/internal/assistant/orchestrator"
	"bitsa-assistant/internal/assistant/retriever"
	"bitsa-assistant/internal/audit"
	"bitsa-assistant/internal/common/aws"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/database"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/llm"
	"bitsa-assistant/internal/store/esstore"
	"bitsa-assistant/internal/store/sqlstore"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Services struct {
	Store        retriever.RecordStore
	Completer    llm.Completer
	Generator    *generator.Generator
	Orchestrator *orchestrator.Orchestrator
	Audit        *audit.Recorder
	Checks       []Check

	closers []func() error
	logger  logger.Logger
}

// RetryWithBackoff retries operation, doubling the delay after each failure.
func RetryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}

		log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"maxRetries":  maxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", operationName, ctx.Err())
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// OpenRecordStore connects to the configured backend and confirms it answers.
func OpenRecordStore(ctx context.Context, cfg *config.Config, attempts int, log logger.Logger) (retriever.RecordStore, Check, func() error, error) {
	switch cfg.RecordStore.Backend {
	case config.BackendElasticsearch:
		var es *database.ElasticsearchClient
		err := RetryWithBackoff(ctx, func() error {
			var err error
			if es, err = database.NewElasticsearch(cfg.Database.Elasticsearch); err != nil {
				return err
			}
			return es.Ping(ctx)
		}, attempts, 2*time.Second, log, "Elasticsearch connection")
		if err != nil {
			return nil, Check{}, nil, err
		}
		store := esstore.New(es.Client, cfg.RecordStore.IndexPrefix, log)
		return store, Check{Name: "elasticsearch", Ping: es.Ping}, func() error { return nil }, nil

	case config.BackendPostgres, config.BackendSQLite:
		var client *database.SQLClient
		err := RetryWithBackoff(ctx, func() error {
			var err error
			if cfg.RecordStore.Backend == config.BackendSQLite {
				client, err = database.NewSQLite(cfg.Database.SQLite)
			} else {
				client, err = database.NewPostgres(cfg.Database.Postgres)
			}
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				client.Close()
				return err
			}
			return nil
		}, attempts, 2*time.Second, log, cfg.RecordStore.Backend+" connection")
		if err != nil {
			return nil, Check{}, nil, err
		}
		dialect, err := sqlstore.DialectFor(client.Driver)
		if err != nil {
			client.Close()
			return nil, Check{}, nil, err
		}
		store := sqlstore.New(client.DB, dialect, log)
		return store, Check{Name: cfg.RecordStore.Backend, Ping: client.Ping}, client.Close, nil
	}
	return nil, Check{}, nil, fmt.Errorf("unknown record store backend %q", cfg.RecordStore.Backend)
}

// NewAuditRecorder returns an SNS-backed recorder when audit is enabled and
// a log-only recorder otherwise.
func NewAuditRecorder(ctx context.Context, cfg config.AuditConfig, log logger.Logger) (*audit.Recorder, error) {
	if !cfg.Enabled {
		return audit.NewRecorder(audit.NewLogSink(log), log), nil
	}
	client, err := aws.NewSNSClient(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return audit.NewRecorder(audit.NewSNSSink(client, cfg.SNSTopicARN), log), nil
}

// Build opens every dependency. store may be supplied by the caller (the CLI
// fixtures mode); otherwise it is opened from cfg.
func Build(ctx context.Context, cfg *config.Config, store retriever.RecordStore, log logger.Logger) (*Services, error) {
	s := &Services{logger: log}

	if store == nil {
		opened, check, closer, err := OpenRecordStore(ctx, cfg, 15, log)
		if err != nil {
			return nil, err
		}
		store = opened
		s.Checks = append(s.Checks, check)
		s.closers = append(s.closers, closer)
	}
	s.Store = store

	var rdb redis.Cmdable
	if cfg.Database.Redis.Address != "" {
		rc := database.NewRedis(cfg.Database.Redis)
		if err := RetryWithBackoff(ctx, func() error { return rc.Ping(ctx) }, 10, 2*time.Second, log, "Redis connection"); err != nil {
			s.Close()
			return nil, err
		}
		rdb = rc.Client
		s.Checks = append(s.Checks, Check{Name: "redis", Ping: rc.Ping})
		s.closers = append(s.closers, rc.Close)
	}

	completer, err := llm.NewFromConfig(ctx, cfg.Completion, rdb, log)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("completion service: %w", err)
	}
	s.Completer = completer

	recorder, err := NewAuditRecorder(ctx, cfg.Audit, log)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("audit sink: %w", err)
	}
	s.Audit = recorder

	a := cfg.Assistant
	s.Generator = generator.New(completer, log)
	s.Orchestrator = orchestrator.New(
		retriever.New(store, retriever.Config{
			TargetedLimit: a.TargetedLimit,
			BroadLimit:    a.BroadLimit,
			ReportLimit:   a.ReportLimit,
			QueryTimeout:  config.GetDuration(a.RetrievalTimeout),
		}, log),
		completer,
		guard.New(log),
		s.Generator,
		orchestrator.Config{
			ChatTemperature:  a.ChatTemperature,
			RetryTemperature: a.RetryTemperature,
			MaxTokens:        a.ChatMaxTokens,
		},
		log,
	)
	return s, nil
}

// Ready runs every check and returns the failures by name.
func (s *Services) Ready(ctx context.Context) map[string]string {
	failures := map[string]string{}
	for _, c := range s.Checks {
		if err := c.Ping(ctx); err != nil {
			failures[c.Name] = err.Error()
		}
	}
	return failures
}

func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Warn("Close failed", map[string]interface{}{"error": err.Error()})
		}
	}
	s.closers = nil
}
