package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account record. Every profile attribute is nullable so a user
// registered with only email and password serializes the rest as null.
type User struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"_id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	JobTitle    *string   `json:"job_title"`
	PhoneNumber *string   `json:"phone_number"`
	Age         *string   `json:"age"`
	Address     *string   `json:"address"`
	Description *string   `gorm:"type:text" json:"description"`
	Pseudonym   *string   `gorm:"uniqueIndex" json:"pseudonym"`
	Picture     *string   `json:"picture"`
	Files       *string   `json:"files"`
	Links       *string   `gorm:"type:text" json:"links"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ProfileColumns lists the user columns that profile updates may write
var ProfileColumns = []string{
	"first_name",
	"last_name",
	"job_title",
	"phone_number",
	"age",
	"address",
	"description",
	"pseudonym",
	"links",
}

// DisplayName joins first and last name when present
func (u *User) DisplayName() string {
	first, last := Deref(u.FirstName), Deref(u.LastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}

// Deref returns the pointed-to string or ""
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
