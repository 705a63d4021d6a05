package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/kv"
	"fintrack/internal/ledger"
	"fintrack/internal/services"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := kv.NewSQLiteStore(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}

	repo, err := ledger.NewRepository(ctx, store, config.StorageKey)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	amqpClient, cleanup := f.wireEvents(config, store.Close)
	service := services.NewTransactionService(repo, publisherOrNil(amqpClient))

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Service: service,
		Cleanup: cleanup,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store := kv.NewMemoryStore()

	repo, err := ledger.NewRepository(ctx, store, config.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	amqpClient, cleanup := f.wireEvents(config, nil)
	service := services.NewTransactionService(repo, publisherOrNil(amqpClient))

	f.logger.Info("Initialized memory backend", "amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Service: service,
		Cleanup: cleanup,
	}, nil
}

// wireEvents connects the optional AMQP publisher and composes the cleanup
// chain. A broker failure downgrades to local-only operation.
func (f *DefaultFactory) wireEvents(config Config, closeStore CleanupFunc) (*amqp.Client, CleanupFunc) {
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			amqpClient = client
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	cleanup := func() error {
		var firstErr error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				firstErr = err
			}
		}
		if closeStore != nil {
			if err := closeStore(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return amqpClient, cleanup
}

// publisherOrNil avoids handing the service a typed-nil interface value.
func publisherOrNil(client *amqp.Client) services.EventPublisher {
	if client == nil {
		return nil
	}
	return client
}
