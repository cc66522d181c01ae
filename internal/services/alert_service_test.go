package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testDefaults = DefaultLocation{Lat: 14.5995, Lng: 120.9842, Accuracy: 50000}

func newTriggerRequest() model.AlertTriggerRequest {
	return model.AlertTriggerRequest{
		FullName:       "Ana Cruz",
		PhoneNumber:    "+639171234567",
		GpsLat:         14.6,
		GpsLng:         121.0,
		GpsAccuracy:    18,
		LocationMethod: "gps",
	}
}

func TestAlertService_Trigger(t *testing.T) {
	ctx := context.Background()

	t.Run("creates incident with opening message", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewAlertService(userRepo, incidentRepo, messageRepo, nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		userRepo.On("FindOrCreateByPhone", ctx, "Ana Cruz", "+639171234567").
			Return(&model.User{ID: 7, FullName: "Ana Cruz", PhoneNumber: "+639171234567"}, nil)
		incidentRepo.On("Create", ctx, mock.MatchedBy(func(inc *model.Incident) bool {
			return inc.UserID == 7 &&
				inc.Status == model.IncidentStatusActive &&
				inc.LocationMethod == "gps" &&
				inc.LatestMessage == "Emergency alert triggered by Ana Cruz"
		})).Return(&model.Incident{ID: 42, UserID: 7, Status: model.IncidentStatusActive}, nil)
		messageRepo.On("Create", ctx, mock.MatchedBy(func(msg *model.Message) bool {
			return msg.IncidentID == 42 &&
				msg.Sender == model.SenderUser &&
				msg.MessageText == "🚨 EMERGENCY ALERT: I need help! Location: 14.6, 121"
		})).Return(&model.Message{ID: 1, IncidentID: 42}, nil)

		incident, err := svc.Trigger(ctx, newTriggerRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(42), incident.ID)
		userRepo.AssertExpectations(t)
		incidentRepo.AssertExpectations(t)
		messageRepo.AssertExpectations(t)
	})

	t.Run("substitutes default location when coordinates are missing", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewAlertService(userRepo, incidentRepo, messageRepo, nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		userRepo.On("FindOrCreateByPhone", ctx, "Ana Cruz", "+639171234567").
			Return(&model.User{ID: 7}, nil)
		incidentRepo.On("Create", ctx, mock.MatchedBy(func(inc *model.Incident) bool {
			return inc.GpsLat == 14.5995 &&
				inc.GpsLng == 120.9842 &&
				inc.GpsAccuracy == 50000 &&
				inc.LocationMethod == model.LocationMethodDefault
		})).Return(&model.Incident{ID: 43, Status: model.IncidentStatusActive}, nil)
		messageRepo.On("Create", ctx, mock.Anything).
			Return(&model.Message{ID: 2, IncidentID: 43}, nil)

		req := newTriggerRequest()
		req.GpsLat = 0
		req.GpsLng = 0

		_, err := svc.Trigger(ctx, req)
		require.NoError(t, err)
		incidentRepo.AssertExpectations(t)
	})

	t.Run("zero latitude alone still counts as no fix", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewAlertService(userRepo, incidentRepo, messageRepo, nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		userRepo.On("FindOrCreateByPhone", ctx, "Ana Cruz", "+639171234567").
			Return(&model.User{ID: 7}, nil)
		incidentRepo.On("Create", ctx, mock.MatchedBy(func(inc *model.Incident) bool {
			return inc.LocationMethod == model.LocationMethodDefault
		})).Return(&model.Incident{ID: 44, Status: model.IncidentStatusActive}, nil)
		messageRepo.On("Create", ctx, mock.Anything).
			Return(&model.Message{ID: 3, IncidentID: 44}, nil)

		req := newTriggerRequest()
		req.GpsLat = 0

		_, err := svc.Trigger(ctx, req)
		require.NoError(t, err)
		incidentRepo.AssertExpectations(t)
	})

	t.Run("rejects missing identity fields", func(t *testing.T) {
		svc := NewAlertService(new(MockUserRepository), new(MockIncidentRepository), new(MockMessageRepository), nil, testDefaults, time.Second)

		req := newTriggerRequest()
		req.FullName = ""
		_, err := svc.Trigger(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)

		req = newTriggerRequest()
		req.PhoneNumber = ""
		_, err = svc.Trigger(ctx, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("opening message failure aborts the whole trigger", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewAlertService(userRepo, incidentRepo, messageRepo, nil, testDefaults, time.Second)

		boom := errors.New("insert failed")
		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		userRepo.On("FindOrCreateByPhone", ctx, "Ana Cruz", "+639171234567").
			Return(&model.User{ID: 7}, nil)
		incidentRepo.On("Create", ctx, mock.Anything).
			Return(&model.Incident{ID: 45, Status: model.IncidentStatusActive}, nil)
		messageRepo.On("Create", ctx, mock.Anything).Return(nil, boom)

		_, err := svc.Trigger(ctx, newTriggerRequest())
		assert.ErrorIs(t, err, boom)
	})
}

func TestAlertService_ListActive(t *testing.T) {
	ctx := context.Background()

	alerts := []*model.ActiveAlert{
		{
			Incident: model.Incident{ID: 1, Status: model.IncidentStatusActive, LatestMessage: "newest"},
			UserName: "Ana Cruz",
		},
	}

	t.Run("without cache reads the store", func(t *testing.T) {
		incidentRepo := new(MockIncidentRepository)
		svc := NewAlertService(new(MockUserRepository), incidentRepo, new(MockMessageRepository), nil, testDefaults, time.Second)

		incidentRepo.On("ListActive", ctx).Return(alerts, nil)

		got, err := svc.ListActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, alerts, got)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		incidentRepo := new(MockIncidentRepository)
		cache := setupTestCache(t)
		svc := NewAlertService(new(MockUserRepository), incidentRepo, new(MockMessageRepository), cache, testDefaults, time.Minute)

		incidentRepo.On("ListActive", ctx).Return(alerts, nil).Once()

		first, err := svc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, first, 1)

		second, err := svc.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "Ana Cruz", second[0].UserName)
		assert.Equal(t, "newest", second[0].LatestMessage)

		incidentRepo.AssertExpectations(t)
	})

	t.Run("store error propagates", func(t *testing.T) {
		incidentRepo := new(MockIncidentRepository)
		svc := NewAlertService(new(MockUserRepository), incidentRepo, new(MockMessageRepository), nil, testDefaults, time.Second)

		boom := errors.New("db down")
		incidentRepo.On("ListActive", ctx).Return(nil, boom)

		_, err := svc.ListActive(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestAlertService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("closes incident and appends dispatcher annotation", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		messageRepo := new(MockMessageRepository)
		svc := NewAlertService(userRepo, incidentRepo, messageRepo, nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		incidentRepo.On("MarkResolved", ctx, int64(42), "Emergency resolved by dispatcher").Return(nil)
		messageRepo.On("Create", ctx, mock.MatchedBy(func(msg *model.Message) bool {
			return msg.IncidentID == 42 &&
				msg.Sender == model.SenderDispatcher &&
				msg.MessageText == "🚨 EMERGENCY RESOLVED: This incident has been marked as solved and is now closed."
		})).Return(&model.Message{ID: 9, IncidentID: 42}, nil)

		require.NoError(t, svc.Resolve(ctx, 42))
		incidentRepo.AssertExpectations(t)
		messageRepo.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := NewAlertService(new(MockUserRepository), new(MockIncidentRepository), new(MockMessageRepository), nil, testDefaults, time.Second)
		assert.ErrorIs(t, svc.Resolve(ctx, 0), ErrValidation)
		assert.ErrorIs(t, svc.Resolve(ctx, -5), ErrValidation)
	})

	t.Run("unknown incident", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		svc := NewAlertService(userRepo, incidentRepo, new(MockMessageRepository), nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		incidentRepo.On("MarkResolved", ctx, int64(99), mock.Anything).Return(repository.ErrIncidentNotFound)

		assert.ErrorIs(t, svc.Resolve(ctx, 99), ErrNotFound)
	})

	t.Run("already closed", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		incidentRepo := new(MockIncidentRepository)
		svc := NewAlertService(userRepo, incidentRepo, new(MockMessageRepository), nil, testDefaults, time.Second)

		userRepo.On("WithinTransaction", ctx, mock.Anything).Return(nil)
		incidentRepo.On("MarkResolved", ctx, int64(42), mock.Anything).Return(repository.ErrIncidentClosed)

		assert.ErrorIs(t, svc.Resolve(ctx, 42), ErrAlreadyClosed)
	})
}
