// api/model/access.go
package model

// DenyReason says why an AuthorizationDecision was negative.
type DenyReason string

const (
	DenyNone             DenyReason = ""
	DenyUnauthenticated  DenyReason = "unauthenticated"
	DenyForbidden        DenyReason = "forbidden"
	DenyRoleLookupFailed DenyReason = "role_lookup_failed"
)

// AuthorizationDecision is produced once per request and never outlives it.
type AuthorizationDecision struct {
	Principal    *UserIdentity
	Authorized   bool
	RequiredRole string
	Reason       DenyReason
	// Err carries the role-store failure when Reason is DenyRoleLookupFailed.
	Err error
}
