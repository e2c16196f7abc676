package models

// AuditLog records state-changing operations (period closes, recurring
// runs) for later inspection. Chain failures during close are surfaced
// here rather than as user-facing errors.
type AuditLog struct {
	Base
	// Engine-level events carry no user or resource; both stay text so
	// an empty id is storable.
	UserID       string `gorm:"index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
