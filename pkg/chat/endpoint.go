package chat

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"
)

// PushEndpoint is one registered device able to receive push notifications
// for a user. A user may have several endpoints (multi-device). No DeletedAt
// column: pruned endpoints are removed outright, not soft-deleted.
type PushEndpoint struct {
	ID        uint      `gorm:"primary_key" json:"-"`
	UserID    string    `gorm:"index" json:"userId"`
	Token     string    `gorm:"unique_index" json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EndpointRegistry manages database access to push endpoints. It is the only
// store this service writes to.
type EndpointRegistry struct {
	DB *gorm.DB
}

// NewEndpointRegistry creates an EndpointRegistry object
func NewEndpointRegistry(db *gorm.DB) *EndpointRegistry {
	return &EndpointRegistry{DB: db}
}

// ListByUser returns all endpoints registered to a user
func (r *EndpointRegistry) ListByUser(_ context.Context, userID string) ([]PushEndpoint, error) {
	var endpoints []PushEndpoint
	if err := r.DB.Where("user_id = ?", userID).Find(&endpoints).Error; err != nil {
		return nil, err
	}
	return endpoints, nil
}

// DeleteBatch removes all endpoints with the given tokens in one statement.
// Tokens already removed by a concurrent dispatch are not an error.
func (r *EndpointRegistry) DeleteBatch(_ context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.DB.Where("token IN (?)", tokens).Delete(&PushEndpoint{}).Error
}

// Register upserts an endpoint keyed by its token. Re-registering an existing
// token refreshes its owner and timestamps instead of duplicating it.
func (r *EndpointRegistry) Register(_ context.Context, endpoint PushEndpoint) error {
	var existing PushEndpoint
	if r.DB.Where("token = ?", endpoint.Token).First(&existing).RecordNotFound() {
		return r.DB.Create(&endpoint).Error
	}
	existing.UserID = endpoint.UserID
	existing.Platform = endpoint.Platform
	return r.DB.Save(&existing).Error
}

// Unregister removes a single endpoint by token
func (r *EndpointRegistry) Unregister(ctx context.Context, token string) error {
	return r.DeleteBatch(ctx, []string{token})
}

// DeleteStale removes endpoints that have not been refreshed since the cutoff
func (r *EndpointRegistry) DeleteStale(_ context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.Where("updated_at < ?", cutoff).Delete(&PushEndpoint{})
	return res.RowsAffected, res.Error
}
