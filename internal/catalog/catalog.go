// Package catalog keeps an optional SQLite index of rendered charts so a
// session's artifacts can be traced back to the profiles they came from.
package catalog

import (
	"context"

	"codeberg.org/mutker/faultplot/internal/errors"
	"codeberg.org/mutker/faultplot/internal/logger"
)

type service struct {
	repo Repository
	log  logger.Logger
}

// No-op implementation
type noopRecorder struct{}

func NewService(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If the catalog is disabled, return a no-op recorder
	if !cfg.Enabled {
		log.Debug().Msg("Catalog disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create catalog repository")
		return nil, err
	}

	log.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Catalog initialized successfully")

	return &service{
		repo: repo,
		log:  log,
	}, nil
}

func (s *service) Record(ctx context.Context, entry *Entry) error {
	errFactory := errors.New()

	if entry == nil || entry.Path == "" {
		return errFactory.New(ErrInvalidRecord)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationAbort, ctx.Err())
	default:
		id, err := s.repo.Insert(ctx, entry)
		if err != nil {
			return errFactory.Wrap(ErrRecordFailed, err)
		}
		entry.ID = id
	}

	s.log.Debug().
		Int64("id", entry.ID).
		Str("path", entry.Path).
		Msg("Recorded artifact")

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrStorageClose, err)
	}
	return nil
}

// No-op implementation
func (*noopRecorder) Record(_ context.Context, _ *Entry) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
