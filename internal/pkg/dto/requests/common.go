package requests

// QueryParams carries pagination and period filters parsed from the URL.
type QueryParams struct {
	Page     int
	PageSize int
	Start    string
	End      string
}

// AuditListQuery filters the audit log listing endpoint.
type AuditListQuery struct {
	ActionType string `validate:"omitempty"`
	EntityType string `validate:"omitempty"`
	UserID     string `validate:"omitempty"`
	Start      string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	End        string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Page       int
	PageSize   int
}
