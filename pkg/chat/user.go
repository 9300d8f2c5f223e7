package chat

import (
	"context"

	"github.com/jinzhu/gorm"
)

// User is an account in the marketplace, read-only to this service
type User struct {
	gorm.Model
	UserID      string `gorm:"unique_index" json:"userId"`
	DisplayName string `json:"displayName"`
}

// UserStore reads user profiles from the database
type UserStore struct {
	DB *gorm.DB
}

// NewUserStore creates a UserStore object
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{DB: db}
}

// Get returns the user with the given external ID, or ErrNotFound
func (s *UserStore) Get(_ context.Context, userID string) (*User, error) {
	var user User
	res := s.DB.Where("user_id = ?", userID).First(&user)
	if res.RecordNotFound() {
		return nil, ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &user, nil
}
