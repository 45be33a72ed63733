package responses

// AuditLogResponse is the wire shape of a single audit entry. Values maps are
// returned exactly as stored, already redacted at write time.
type AuditLogResponse struct {
	ID                  string                 `json:"id"`
	ActionType          string                 `json:"action_type"`
	Description         string                 `json:"description"`
	EntityType          string                 `json:"entity_type,omitempty"`
	EntityID            string                 `json:"entity_id,omitempty"`
	UserID              string                 `json:"user_id"`
	UserName            string                 `json:"user_name"`
	UserRole            string                 `json:"user_role"`
	RequestID           string                 `json:"request_id,omitempty"`
	IPAddress           string                 `json:"ip_address,omitempty"`
	Endpoint            string                 `json:"endpoint,omitempty"`
	HTTPMethod          string                 `json:"http_method,omitempty"`
	StatusCode          int                    `json:"status_code,omitempty"`
	OldValues           map[string]interface{} `json:"old_values,omitempty"`
	NewValues           map[string]interface{} `json:"new_values,omitempty"`
	Severity            string                 `json:"severity"`
	IsSensitive         bool                   `json:"is_sensitive"`
	IsLGPDRelevant      bool                   `json:"is_lgpd_relevant"`
	IsSecurityEvent     bool                   `json:"is_security_event"`
	RetentionPeriodDays int                    `json:"retention_period_days"`
	ArchiveDate         string                 `json:"archive_date"`
	DeleteDate          string                 `json:"delete_date"`
	IsArchived          bool                   `json:"is_archived"`
	Timestamp           string                 `json:"timestamp"`
}

type AuditStatisticsResponse struct {
	Total               int64            `json:"total"`
	ByAction            map[string]int64 `json:"by_action"`
	BySeverity          map[string]int64 `json:"by_severity"`
	ByUser              map[string]int64 `json:"by_user"`
	SuccessRate         float64          `json:"success_rate"`
	SecurityEvents      int64            `json:"security_events"`
	LGPDEvents          int64            `json:"lgpd_events"`
	SensitiveDataAccess int64            `json:"sensitive_data_access"`
}
