package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Jojie16/SafeZone/internal/model"
	"github.com/Jojie16/SafeZone/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository struct {
	*pg.DB
}

func NewUserRepository(db *pg.DB) *UserRepository {
	return &UserRepository{
		db,
	}
}

// FindOrCreateByPhone resolves a reporter's phone number to a stable user
// identity, inserting a new row if the number has never been seen. An
// existing user is returned unchanged: the stored full name is NOT
// overwritten when a repeat trigger carries a different display name.
//
// Two triggers racing on the same unseen number are serialized by the
// unique index on phone_number; the loser's insert fails with a unique
// violation and is retried as a lookup.
func (r *UserRepository) FindOrCreateByPhone(ctx context.Context, fullName, phoneNumber string) (*model.User, error) {
	var entity UserEntity

	err := r.Write(ctx).Where("phone_number = ?", phoneNumber).First(&entity).Error
	if err == nil {
		return toUserModel(&entity), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	entity = UserEntity{
		FullName:    fullName,
		PhoneNumber: phoneNumber,
	}
	err = r.Write(ctx).Create(&entity).Error
	if err == nil {
		return toUserModel(&entity), nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// lost the create race, the row exists now
	var existing UserEntity
	if err := r.Write(ctx).Where("phone_number = ?", phoneNumber).First(&existing).Error; err != nil {
		return nil, err
	}
	return toUserModel(&existing), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var entity UserEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserModel(&entity), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// postgres and sqlite phrase the violation differently
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "UNIQUE constraint")
}
