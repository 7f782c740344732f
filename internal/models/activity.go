package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityAction is the closed set of audited actions.
type ActivityAction string

const (
	ActionLogin        ActivityAction = "login"
	ActionLogout       ActivityAction = "logout"
	ActionCreate       ActivityAction = "create"
	ActionUpdate       ActivityAction = "update"
	ActionDelete       ActivityAction = "delete"
	ActionUpdateRole   ActivityAction = "update_role"
	ActionUpdateStatus ActivityAction = "update_status"
)

// IsValid reports whether the action belongs to the audited set.
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActionLogin, ActionLogout, ActionCreate, ActionUpdate, ActionDelete, ActionUpdateRole, ActionUpdateStatus:
		return true
	default:
		return false
	}
}

// ActivityLog is an immutable audit trail entry.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	Action     ActivityAction    `gorm:"size:32;not null;index" json:"action"`
	Resource   string            `gorm:"size:64;not null;index" json:"resource"`
	ResourceID *uint             `json:"resource_id"`
	Details    *string           `gorm:"type:text" json:"details"`
	IPAddress  string            `gorm:"size:64" json:"ip_address"`
	UserAgent  string            `gorm:"size:512" json:"user_agent"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}
