package service

import (
	"context"

	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/rs/zerolog"
)

// Broadcaster fans a new counter value out to live subscribers.
type Broadcaster interface {
	BroadcastVisitorCount(count int64)
}

type visitorService struct {
	repo repository.VisitorRepository
	tx   repository.TxManager
	hub  Broadcaster
	log  zerolog.Logger
}

// NewVisitorService wires the counter; hub may be nil when nothing streams counts.
func NewVisitorService(repo repository.VisitorRepository, tx repository.TxManager, hub Broadcaster, logger zerolog.Logger) VisitorService {
	l := logger.With().Str("module", "service").Str("component", "visitor").Logger()
	return &visitorService{repo: repo, tx: tx, hub: hub, log: l}
}

func (s *visitorService) Increment(ctx context.Context) (model.VisitorCount, error) {
	n, err := s.repo.Increment(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("increment visitor counter failed")
		return model.VisitorCount{}, err
	}
	s.log.Debug().Int64("count", n).Msg("visitor counted")
	s.broadcast(n)
	return model.VisitorCount{Count: n}, nil
}

// Count never mutates the counter.
func (s *visitorService) Count(ctx context.Context) (model.VisitorCount, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("read visitor counter failed")
		return model.VisitorCount{}, err
	}
	return model.VisitorCount{Count: n}, nil
}

// Reset zeroes the counter and reads it back in the same transaction.
func (s *visitorService) Reset(ctx context.Context) (model.VisitorCount, error) {
	var n int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Reset(ctx); err != nil {
			return err
		}
		var err error
		n, err = s.repo.Count(ctx)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Msg("reset visitor counter failed")
		return model.VisitorCount{}, err
	}
	s.log.Warn().Msg("visitor counter reset")
	s.broadcast(n)
	return model.VisitorCount{Count: n}, nil
}

func (s *visitorService) broadcast(n int64) {
	if s.hub != nil {
		s.hub.BroadcastVisitorCount(n)
	}
}
