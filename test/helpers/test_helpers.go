package helpers

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/internal/repository"
	"github.com/Jojie16/SafeZone/pkg/pg"
	"github.com/Jojie16/SafeZone/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.UserEntity{},
		&repository.IncidentEntity{},
		&repository.MessageEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	// Unique connection name per call so the adapter singleton never hands
	// back a client bound to another test's server.
	connName := fmt.Sprintf("test-%d", time.Now().UnixNano())
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestUser(t *testing.T, db *pg.DB, fullName, phoneNumber string) *repository.UserEntity {
	ctx := context.Background()
	user := &repository.UserEntity{
		FullName:    fullName,
		PhoneNumber: phoneNumber,
	}
	err := db.Write(ctx).Create(user).Error
	require.NoError(t, err)
	return user
}

func CreateTestIncident(t *testing.T, db *pg.DB, userID int64, status model.IncidentStatus) *repository.IncidentEntity {
	ctx := context.Background()
	incident := &repository.IncidentEntity{
		UserID:         userID,
		GpsLat:         14.5995,
		GpsLng:         120.9842,
		GpsAccuracy:    30,
		LocationMethod: "gps",
		Status:         string(status),
		LatestMessage:  "test incident",
	}
	err := db.Write(ctx).Create(incident).Error
	require.NoError(t, err)
	return incident
}

func CreateTestMessage(t *testing.T, db *pg.DB, incidentID int64, sender model.Sender, text string) *repository.MessageEntity {
	ctx := context.Background()
	msg := &repository.MessageEntity{
		IncidentID:  incidentID,
		Sender:      string(sender),
		MessageText: text,
		CreatedAt:   time.Now(),
	}
	err := db.Write(ctx).Create(msg).Error
	require.NoError(t, err)
	return msg
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
