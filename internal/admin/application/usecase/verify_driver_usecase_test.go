package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	adminin "github.com/medehssane/tewsilty/internal/admin/application/ports/in"
	"github.com/medehssane/tewsilty/internal/driver/domain"
	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/shared/logger"

	"github.com/stretchr/testify/require"
)

type mockDriverRepo struct {
	mu      sync.Mutex
	details map[string]*domain.DriverDetail
}

func newMockDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{details: make(map[string]*domain.DriverDetail)}
}

func (m *mockDriverRepo) CreateDetail(ctx context.Context, d *domain.DriverDetail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.details[d.UserID] = &cp
	return nil
}

func (m *mockDriverRepo) FindByUserID(ctx context.Context, userID string) (*domain.DriverDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[userID]
	if !ok {
		return nil, domain.ErrDriverNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDriverRepo) IsVerified(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[userID]
	return ok && d.VerificationStatus == model.VerificationVerified, nil
}

func (m *mockDriverRepo) SetVerificationStatus(ctx context.Context, userID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.details[userID]
	if !ok {
		return domain.ErrDriverNotFound
	}
	d.VerificationStatus = status
	return nil
}

type mockVerificationPublisher struct {
	mu        sync.Mutex
	published []string
}

func (m *mockVerificationPublisher) PublishVerification(ctx context.Context, userID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, userID+":"+status)
	return nil
}

func TestVerifyDriver(t *testing.T) {
	ctx := context.Background()
	repo := newMockDriverRepo()
	require.NoError(t, repo.CreateDetail(ctx, &domain.DriverDetail{
		ID:                 "dd1",
		UserID:             "d1",
		IDNumber:           "1234567890",
		VerificationStatus: model.VerificationPending,
		CreatedAt:          time.Now(),
	}))

	pub := &mockVerificationPublisher{}
	svc := NewVerifyDriverService(repo, pub, logger.NewLogger("test"))

	output, err := svc.Execute(ctx, adminin.VerifyDriverInput{UserID: "d1", Status: model.VerificationVerified})
	require.NoError(t, err)
	require.Equal(t, model.VerificationVerified, output.VerificationStatus)

	verified, err := repo.IsVerified(ctx, "d1")
	require.NoError(t, err)
	require.True(t, verified)
	require.Equal(t, []string{"d1:verified"}, pub.published)
}

func TestVerifyDriverRejects(t *testing.T) {
	ctx := context.Background()
	repo := newMockDriverRepo()
	require.NoError(t, repo.CreateDetail(ctx, &domain.DriverDetail{
		ID:                 "dd1",
		UserID:             "d1",
		VerificationStatus: model.VerificationPending,
	}))

	svc := NewVerifyDriverService(repo, &mockVerificationPublisher{}, logger.NewLogger("test"))

	_, err := svc.Execute(ctx, adminin.VerifyDriverInput{UserID: "d1", Status: model.VerificationRejected})
	require.NoError(t, err)

	verified, _ := repo.IsVerified(ctx, "d1")
	require.False(t, verified)
}

func TestVerifyDriverValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewVerifyDriverService(newMockDriverRepo(), &mockVerificationPublisher{}, logger.NewLogger("test"))

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.Execute(ctx, adminin.VerifyDriverInput{UserID: "d1", Status: "approved"})
		require.ErrorIs(t, err, domain.ErrInvalidVerificationStatus)
	})

	t.Run("pending cannot be set back", func(t *testing.T) {
		_, err := svc.Execute(ctx, adminin.VerifyDriverInput{UserID: "d1", Status: model.VerificationPending})
		require.ErrorIs(t, err, domain.ErrInvalidVerificationStatus)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := svc.Execute(ctx, adminin.VerifyDriverInput{UserID: "ghost", Status: model.VerificationVerified})
		require.ErrorIs(t, err, domain.ErrDriverNotFound)
	})
}
