package payment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edulingo/tutorcrm/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) ListPaymentsByStudent(ctx context.Context, studentID int) ([]*models.Payment, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *mockRepo) SumPayments(ctx context.Context, filter models.RevenueFilter) (float64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(float64), args.Error(1)
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreate(t *testing.T) {
	repo := new(mockRepo)
	repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
		return p.StudentID == 2 && p.Amount == 1500 && !p.PaidAt.IsZero()
	})).Return(10, nil).Once()

	service := New(repo, noopLogger())
	id, err := service.Create(context.Background(), models.DummyStandalonePayment{
		StudentID: 2,
		Amount:    1500,
		Currency:  "RUB",
		Method:    models.PaymentCash,
		AccountID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, id)
	repo.AssertExpectations(t)
}

func TestRevenue(t *testing.T) {
	tests := []struct {
		name    string
		req     models.DummyRevenueFilter
		want    float64
		wantErr bool
	}{
		{
			name: "корректный период",
			req:  models.DummyRevenueFilter{From: "2026-08-01", To: "2026-09-01", Currency: "RUB"},
			want: 42000,
		},
		{
			name:    "некорректная дата начала",
			req:     models.DummyRevenueFilter{From: "01.08.2026", To: "2026-09-01"},
			wantErr: true,
		},
		{
			name:    "правая граница раньше левой",
			req:     models.DummyRevenueFilter{From: "2026-09-01", To: "2026-08-01"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			if !tt.wantErr {
				repo.On("SumPayments", mock.Anything, mock.Anything).Return(tt.want, nil).Once()
			}

			service := New(repo, noopLogger())
			got, err := service.Revenue(context.Background(), tt.req)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPeriod)
				repo.AssertNotCalled(t, "SumPayments", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
