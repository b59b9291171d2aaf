package meeting

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ExpiryScheduler periodically closes voting on pending meetings whose date
// has passed. One sweep per night is enough; the conditional UpdateMany makes
// overlapping runs harmless.
type ExpiryScheduler struct {
	cron    *cron.Cron
	service MeetingService
	logger  *zap.Logger
}

func NewExpiryScheduler(service MeetingService, logger *zap.Logger) *ExpiryScheduler {
	return &ExpiryScheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}
}

func (s *ExpiryScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *ExpiryScheduler) Stop() {
	s.cron.Stop()
}

func (s *ExpiryScheduler) sweep() {
	closed, err := s.service.CloseExpired(context.Background())
	if err != nil {
		s.logger.Error("expired meeting sweep failed", zap.Error(err))
		return
	}
	if closed > 0 {
		s.logger.Info("expired meetings closed", zap.Int64("count", closed))
	}
}
