package store

import (
	"github.com/seeek/portfolio/backend/internal/models"
	"gorm.io/gorm"
)

const (
	UsersCollection      = "users"
	PortfoliosCollection = "portfolios"
)

// Users opens the users collection, addressable by id, email and pseudonym
func Users(db *gorm.DB) *Collection[models.User] {
	fields := []string{"id", "email", "pseudonym", "password", "picture", "files"}
	fields = append(fields, models.ProfileColumns...)
	return NewCollection[models.User](db, UsersCollection, fields...)
}

// Portfolios opens the portfolios collection, addressable by email
func Portfolios(db *gorm.DB) *Collection[models.Portfolio] {
	fields := []string{"id", "email"}
	for _, f := range models.Fields {
		fields = append(fields, string(f))
	}
	return NewCollection[models.Portfolio](db, PortfoliosCollection, fields...)
}
