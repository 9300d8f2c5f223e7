package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

func TestConversationStoreGet(t *testing.T) {
	db, dbMock, _ := sqlmock.New()
	gormDB, _ := gorm.Open("postgres", db)

	dbMock.ExpectQuery("SELECT (.+) FROM (.+) WHERE (.+) LIMIT 1").
		WithArgs("C1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "participants"}).
			AddRow(1, "C1", []byte(`["A","B"]`)))

	conversation, err := NewConversationStore(gormDB).Get(context.Background(), "C1")
	if err != nil {
		t.Fatalf("Get returned error: %s", err)
	}
	ids := conversation.ParticipantIDs()
	if len(ids) != 2 || ids[0] != "A" || ids[1] != "B" {
		t.Errorf("Unexpected participants: %v", ids)
	}
}

func TestConversationStoreGetNotFound(t *testing.T) {
	db, dbMock, _ := sqlmock.New()
	gormDB, _ := gorm.Open("postgres", db)

	dbMock.ExpectQuery("SELECT (.+) FROM (.+) WHERE (.+) LIMIT 1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewConversationStore(gormDB).Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestParticipantIDsRoundTrip(t *testing.T) {
	var conversation Conversation
	conversation.SetParticipantIDs([]string{"A", "B", "C"})
	ids := conversation.ParticipantIDs()
	if len(ids) != 3 {
		t.Errorf("Expected 3 participants, got %d", len(ids))
	}
}

func TestParticipantIDsEmptyJsonb(t *testing.T) {
	var conversation Conversation
	if ids := conversation.ParticipantIDs(); len(ids) != 0 {
		t.Errorf("Expected no participants, got %v", ids)
	}
}
