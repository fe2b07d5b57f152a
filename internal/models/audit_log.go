package models

import "gorm.io/datatypes"

// AuditLog is one recorded mutation. UserID is 0 for unauthenticated callers,
// since the stock endpoints are public.
type AuditLog struct {
	Base
	UserID       uint              `gorm:"index" json:"user_id"`
	Action       string            `gorm:"size:50;not null;index" json:"action"`
	ResourceType string            `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   uint              `json:"resource_id"`
	IPAddress    string            `gorm:"size:45" json:"ip_address"`
	Changes      datatypes.JSONMap `json:"changes,omitempty"`
}
