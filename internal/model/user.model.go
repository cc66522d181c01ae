package model

import "time"

// User is a reporter identity, keyed by phone number. A user is created
// on their first alert trigger and never deleted.
type User struct {
	ID          int64     `json:"id"           db:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	FullName    string    `json:"full_name"    db:"full_name"    gorm:"column:full_name;not null"`
	PhoneNumber string    `json:"phone_number" db:"phone_number" gorm:"column:phone_number;not null;uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"   gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }
