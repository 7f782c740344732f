package dto

import (
	"time"

	"github.com/noah-isme/padidoc-go-api/internal/models"
)

// ActivityLogListRequest defines filters for listing activity logs.
type ActivityLogListRequest struct {
	Page     int
	PageSize int
	UserID   uint
	Action   string
	Resource string
	From     *time.Time
	To       *time.Time
}

// ActivityUser is the actor snapshot attached to each entry.
type ActivityUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ActivityLogResponse serialises an audit entry with its actor.
type ActivityLogResponse struct {
	ID         uint                   `json:"id"`
	UserID     uint                   `json:"user_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID *uint                  `json:"resource_id"`
	Details    *string                `json:"details"`
	IPAddress  string                 `json:"ip_address"`
	UserAgent  string                 `json:"user_agent"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	User       *ActivityUser          `json:"user"`
}

// NewActivityLogResponse converts an entry; user may be nil when the actor no longer exists.
func NewActivityLogResponse(entry models.ActivityLog, user *models.User) ActivityLogResponse {
	response := ActivityLogResponse{
		ID:         entry.ID,
		UserID:     entry.UserID,
		Action:     string(entry.Action),
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		Metadata:   map[string]interface{}(entry.Metadata),
		CreatedAt:  entry.CreatedAt,
	}
	if user != nil {
		response.User = &ActivityUser{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     string(user.Role),
		}
	}
	return response
}
