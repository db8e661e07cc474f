package usecases

import (
	"time"

	"go.uber.org/zap"
)

// TempSweeper is implemented by storages that stage uploads in temp files.
type TempSweeper interface {
	RemoveStaleTemp(maxAge time.Duration) (int, error)
}

type CleanupService interface {
	CleanupOldTempFiles(maxAge time.Duration) error
}

type cleanupService struct {
	sweeper TempSweeper
	log     *zap.Logger
}

func NewCleanupService(sweeper TempSweeper, log *zap.Logger) CleanupService {
	return &cleanupService{
		sweeper: sweeper,
		log:     log,
	}
}

func (s *cleanupService) CleanupOldTempFiles(maxAge time.Duration) error {
	removed, err := s.sweeper.RemoveStaleTemp(maxAge)
	if err != nil {
		return err
	}
	if removed > 0 {
		s.log.Info("removed stale temp files", zap.Int("count", removed))
	}
	return nil
}
