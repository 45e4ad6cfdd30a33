package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"budgettracker/internal/logger"
	"budgettracker/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService returns an AuditServicer writing to the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log writes one audit row. It never fails the caller: marshal and insert
// errors are logged and dropped. An empty resourceID is stored as NULL for
// actions that span many resources, such as a scan.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit").With("user_id", userID, "action", action)

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		IPAddress:    ipAddress,
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if len(changes) > 0 {
		if data, err := json.Marshal(changes); err != nil {
			log.Warnw("dropping unencodable audit changes", "error", err)
		} else {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("failed to write audit log", "error", err, "resource_type", resourceType, "resource_id", resourceID)
	}
}
