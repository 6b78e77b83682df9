package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/tutorcrm/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStats(t *testing.T) {
	t.Run("промах кеша - чтение из хранилища и запись в кеш", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetDashboardStats", mock.Anything).
			Return(&models.DashboardStats{ActiveStudents: 12}, nil).Once()

		cache := new(mockCache)
		cache.On("Get", "dashboard:stats", mock.Anything).Return(false, nil).Once()
		cache.On("Set", "dashboard:stats", mock.Anything, 5*time.Minute).Return(nil).Once()

		service := New(repo, cache, noopLogger())
		stats, err := service.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 12, stats.ActiveStudents)
		cache.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("попадание в кеш - хранилище не трогаем", func(t *testing.T) {
		repo := new(mockRepo)
		cache := new(mockCache)
		cache.On("Get", "dashboard:stats", mock.Anything).Return(true, nil).Once()

		service := New(repo, cache, noopLogger())
		_, err := service.Stats(context.Background())
		require.NoError(t, err)
		repo.AssertNotCalled(t, "GetDashboardStats", mock.Anything)
	})

	t.Run("ошибка хранилища возвращается", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetDashboardStats", mock.Anything).Return(nil, errors.New("db down")).Once()

		cache := new(mockCache)
		cache.On("Get", "dashboard:stats", mock.Anything).Return(false, nil).Once()

		service := New(repo, cache, noopLogger())
		_, err := service.Stats(context.Background())
		require.Error(t, err)
	})
}
