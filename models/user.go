package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleCustomer    Role = "customer"
	RoleAdmin       Role = "admin"
	RoleMasterAdmin Role = "master_admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	Role         Role      `gorm:"type:VARCHAR(20);default:'customer'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`

	Carts  []Cart  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders []Order `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleMasterAdmin
}

func (u *User) IsMasterAdmin() bool {
	return u.Role == RoleMasterAdmin
}
