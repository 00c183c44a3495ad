package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bplog/internal/amqp"
	"bplog/internal/storage"
	"bplog/internal/storage/memory"
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
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var result *BackendResult
	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.Location)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		result = &BackendResult{Backend: repo, Cleanup: repo.Close}
	case MemoryBackend:
		f.logger.InfoContext(ctx, "Initialized memory backend")
		result = &BackendResult{Backend: memory.New()}
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	f.attachPublisher(ctx, config, result)
	return result, nil
}

// attachPublisher connects to AMQP when configured. Failure leaves the backend usable without announcements.
func (f *DefaultFactory) attachPublisher(ctx context.Context, config Config, result *BackendResult) {
	if config.AMQPURL == "" {
		return
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without announcements", "error", err)
		return
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	storeCleanup := result.Cleanup
	result.Publisher = client
	result.Cleanup = func() error {
		err := client.Close()
		if storeCleanup != nil {
			if cerr := storeCleanup(); cerr != nil && err == nil {
				err = cerr
			}
		}
		return err
	}
}
