package testutil

// NoopAudit satisfies services.AuditServicer without a database. Use it
// in port-level tests where the audit trail is irrelevant.
type NoopAudit struct {
	Entries []string
}

// Log records only the action name.
func (a *NoopAudit) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	a.Entries = append(a.Entries, action)
}
