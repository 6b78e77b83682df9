// Package dashboard содержит подсчёт показателей сводной панели с кешированием.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/edulingo/tutorcrm/internal/models"
)

const statsCacheKey = "dashboard:stats"
const statsCacheTTL = 5 * time.Minute

// StatsRepository описывает выборку показателей из хранилища.
type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// DashboardService отдаёт показатели панели, кешируя их на короткий срок.
type DashboardService struct {
	repo  StatsRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр DashboardService.
func New(repo StatsRepository, cache Cache, log *slog.Logger) *DashboardService {
	return &DashboardService{repo: repo, cache: cache, log: log}
}

// Stats возвращает показатели панели из кеша или хранилища.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats *models.DashboardStats
	found, err := s.cache.Get(statsCacheKey, &stats)
	if err != nil {
		s.log.Warn("failed to read stats cache", slog.Any("err", err))
	}
	if found {
		return stats, nil
	}

	stats, err = s.repo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(statsCacheKey, stats, statsCacheTTL); err != nil {
		s.log.Warn("failed to cache stats", slog.Any("err", err))
	}
	return stats, nil
}
