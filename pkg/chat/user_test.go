package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func TestUserStoreGet(t *testing.T) {
	db, dbMock, _ := sqlmock.New()
	gormDB, _ := gorm.Open("postgres", db)

	dbMock.ExpectQuery("SELECT (.+) FROM (.+) WHERE (.+) LIMIT 1").
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "display_name"}).
			AddRow(1, "A", "Amara Osei"))

	user, err := NewUserStore(gormDB).Get(context.Background(), "A")
	if err != nil {
		t.Fatalf("Get returned error: %s", err)
	}
	if user.DisplayName != "Amara Osei" {
		t.Errorf("Unexpected display name: %s", user.DisplayName)
	}
}

func TestUserStoreGetNotFound(t *testing.T) {
	db, dbMock, _ := sqlmock.New()
	gormDB, _ := gorm.Open("postgres", db)

	dbMock.ExpectQuery("SELECT (.+) FROM (.+) WHERE (.+) LIMIT 1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewUserStore(gormDB).Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
