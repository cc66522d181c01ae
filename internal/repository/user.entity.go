package repository

import (
	"time"

	"github.com/Jojie16/SafeZone/internal/model"
)

type UserEntity struct {
	ID          int64     `db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	FullName    string    `db:"full_name"    gorm:"column:full_name;not null"`
	PhoneNumber string    `db:"phone_number" gorm:"column:phone_number;not null;uniqueIndex"`
	CreatedAt   time.Time `db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (UserEntity) TableName() string {
	return "users"
}

func toUserEntity(m *model.User) *UserEntity {
	if m == nil {
		return nil
	}
	return &UserEntity{
		ID:          m.ID,
		FullName:    m.FullName,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt,
	}
}

func toUserModel(e *UserEntity) *model.User {
	if e == nil {
		return nil
	}
	return &model.User{
		ID:          e.ID,
		FullName:    e.FullName,
		PhoneNumber: e.PhoneNumber,
		CreatedAt:   e.CreatedAt,
	}
}
