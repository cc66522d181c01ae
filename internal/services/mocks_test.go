package services

import (
	"context"
	"testing"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindOrCreateByPhone(ctx context.Context, fullName, phoneNumber string) (*model.User, error) {
	args := m.Called(ctx, fullName, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockIncidentRepository struct {
	mock.Mock
}

func (m *MockIncidentRepository) Create(ctx context.Context, incident *model.Incident) (*model.Incident, error) {
	args := m.Called(ctx, incident)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Incident), args.Error(1)
}

func (m *MockIncidentRepository) GetByID(ctx context.Context, id int64) (*model.Incident, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Incident), args.Error(1)
}

func (m *MockIncidentRepository) ListActive(ctx context.Context) ([]*model.ActiveAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ActiveAlert), args.Error(1)
}

func (m *MockIncidentRepository) MarkResolved(ctx context.Context, id int64, latestMessage string) error {
	args := m.Called(ctx, id, latestMessage)
	return args.Error(0)
}

func (m *MockIncidentRepository) UpdateLatestMessage(ctx context.Context, id int64, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByIncident(ctx context.Context, incidentID int64) ([]*model.Message, error) {
	args := m.Called(ctx, incidentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}

// setupTestCache spins up an in-process redis and returns an adapter bound
// to it. Each test gets its own connection name so the adapter singleton
// cannot hand back a client pointed at another test's server.
func setupTestCache(t *testing.T) redis.RedisAdapter {
	t.Helper()

	srv := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "safezone_test", &redis.Options{
		Addrs: []string{srv.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = adapter.Client().FlushAll(context.Background()).Err()
	})
	return adapter
}
