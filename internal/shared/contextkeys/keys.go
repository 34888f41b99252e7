package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "welfare-cms context key " + string(c)
}

// RequestIDKey is the key for the per-request ULID in context.Context
const RequestIDKey = contextKey("requestID")

// AdminUserKey is the key for the authenticated admin username
const AdminUserKey = contextKey("adminUser")

// ClaimsKey holds the parsed admin token claims
const ClaimsKey = contextKey("claims")

// ComponentKey is the key for the component name used by the logger
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation name used by the logger
const OperationKey = contextKey("operation")

// DomainKey is the key for the content domain a request operates on
const DomainKey = contextKey("domain")
