// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Actions recorded in the audit trail.
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionDelete     = "DELETE"
	ActionAssignRole = "ASSIGN_ROLE"
	ActionRevokeRole = "REVOKE_ROLE"
	ActionDenied     = "ACCESS_DENIED"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id,omitempty"`
	AccessGranted bool            `json:"access_granted"`
	Reason        string          `json:"reason,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
