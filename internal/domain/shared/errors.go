package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound         = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists    = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput     = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized     = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden        = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState     = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInvalidFileType  = NewDomainError("INVALID_FILE_TYPE", "Unsupported file type")
	ErrUpstreamFailure  = NewDomainError("UPSTREAM_FAILURE", "Upstream service call failed")
	ErrRestrictedQuery  = NewDomainError("RESTRICTED_QUERY", "Only SELECT statements are allowed")
	ErrAmbiguousRowKey  = NewDomainError("AMBIGUOUS_ROW_KEY", "Row cannot be uniquely identified")
	ErrProtectedTable   = NewDomainError("PROTECTED_TABLE", "Operation not allowed on protected table")
	ErrStoreNotResolved = NewDomainError("STORE_NOT_RESOLVED", "Acting store could not be resolved")
)
