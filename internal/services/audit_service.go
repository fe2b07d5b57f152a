package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stockstalk/internal/logger"
	"stockstalk/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditServicer that appends to audit_logs.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log is fire-and-forget: a failed write never fails the caller's request.
// Changes that cannot be encoded as JSON are dropped and the row is still written.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		if _, err := json.Marshal(changes); err != nil {
			logger.Get().Warnw("audit changes dropped",
				"action", action,
				"resource", resourceType,
				"resource_id", resourceID,
				"error", err,
			)
		} else {
			entry.Changes = datatypes.JSONMap(changes)
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Errorw("audit write failed",
			"action", action,
			"resource", resourceType,
			"resource_id", resourceID,
			"user_id", userID,
			"error", err,
		)
	}
}
