package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditSeverity string

const (
	AuditSeverityLow      AuditSeverity = "LOW"
	AuditSeverityMedium   AuditSeverity = "MEDIUM"
	AuditSeverityHigh     AuditSeverity = "HIGH"
	AuditSeverityCritical AuditSeverity = "CRITICAL"
)

func (s AuditSeverity) IsValid() bool {
	switch s {
	case AuditSeverityLow, AuditSeverityMedium, AuditSeverityHigh, AuditSeverityCritical:
		return true
	}
	return false
}

type AuditActionType string

const (
	AuditActionCreate        AuditActionType = "CREATE"
	AuditActionRead          AuditActionType = "READ"
	AuditActionUpdate        AuditActionType = "UPDATE"
	AuditActionDelete        AuditActionType = "DELETE"
	AuditActionLogin         AuditActionType = "LOGIN"
	AuditActionLogout        AuditActionType = "LOGOUT"
	AuditActionAccessGranted AuditActionType = "ACCESS_GRANTED"
	AuditActionExport        AuditActionType = "EXPORT"
	AuditActionOther         AuditActionType = "OTHER"
)

// AuditActor holds the verbatim identity of whoever invoked the operation.
// Authorization happens upstream; the recorder never interprets these values.
type AuditActor struct {
	UserID    string `json:"user_id" bson:"user_id"`
	UserName  string `json:"user_name" bson:"user_name"`
	UserRole  string `json:"user_role" bson:"user_role"`
	SessionID string `json:"session_id,omitempty" bson:"session_id,omitempty"`
}

// SystemActor identifies background workers and scheduled sweeps.
func SystemActor() AuditActor {
	return AuditActor{
		UserID:   "system",
		UserName: "system",
		UserRole: "system",
	}
}

type AuditLog struct {
	ID                  primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ActionType          AuditActionType        `json:"action_type" bson:"action_type"`
	Description         string                 `json:"description" bson:"description"`
	EntityType          string                 `json:"entity_type,omitempty" bson:"entity_type,omitempty"`
	EntityID            string                 `json:"entity_id,omitempty" bson:"entity_id,omitempty"`
	Actor               AuditActor             `json:"actor" bson:"actor"`
	RequestID           string                 `json:"request_id,omitempty" bson:"request_id,omitempty"`
	IPAddress           string                 `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent           string                 `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	HTTPMethod          string                 `json:"http_method,omitempty" bson:"http_method,omitempty"`
	Endpoint            string                 `json:"endpoint,omitempty" bson:"endpoint,omitempty"`
	StatusCode          int                    `json:"status_code,omitempty" bson:"status_code,omitempty"`
	DurationMS          int64                  `json:"duration_ms,omitempty" bson:"duration_ms,omitempty"`
	OldValues           map[string]interface{} `json:"old_values,omitempty" bson:"old_values,omitempty"`
	NewValues           map[string]interface{} `json:"new_values,omitempty" bson:"new_values,omitempty"`
	Severity            AuditSeverity          `json:"severity" bson:"severity"`
	IsSensitive         bool                   `json:"is_sensitive" bson:"is_sensitive"`
	IsLGPDRelevant      bool                   `json:"is_lgpd_relevant" bson:"is_lgpd_relevant"`
	IsSecurityEvent     bool                   `json:"is_security_event" bson:"is_security_event"`
	RetentionPeriodDays int                    `json:"retention_period_days" bson:"retention_period_days"`
	ArchiveDate         time.Time              `json:"archive_date" bson:"archive_date"`
	DeleteDate          time.Time              `json:"delete_date" bson:"delete_date"`
	IsArchived          bool                   `json:"is_archived" bson:"is_archived"`
	Timestamp           time.Time              `json:"timestamp" bson:"timestamp"`
}

// AuditStatistics aggregates the audit collection for a period.
type AuditStatistics struct {
	Total               int64            `json:"total"`
	ByAction            map[string]int64 `json:"by_action"`
	BySeverity          map[string]int64 `json:"by_severity"`
	ByUser              map[string]int64 `json:"by_user"`
	SuccessRate         float64          `json:"success_rate"`
	SecurityEvents      int64            `json:"security_events"`
	LGPDEvents          int64            `json:"lgpd_events"`
	SensitiveDataAccess int64            `json:"sensitive_data_access"`
}
