package domain

import (
	"time"

	"gorm.io/gorm"
)

// User is a storefront account. The ID is a generated UUID so it can double
// as the user key in the behavior event log without a lookup.
type User struct {
	ID        string `gorm:"primaryKey"`
	FullName  string `gorm:"column:full_name;not null"`
	Email     string `gorm:"column:email;unique;not null"`
	Password  string `gorm:"column:password;not null"`
	Role      string `gorm:"column:role;default:customer"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
