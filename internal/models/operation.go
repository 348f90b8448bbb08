package models

import "strings"

// Operation is the logical action a request performs on a resource.
// It is resolved once at the HTTP boundary (including the "_method"
// body override) and handed to the rest of the server as a plain value.
type Operation int

const (
	// OpUnknown is an unsupported or unrecognised verb
	OpUnknown Operation = iota
	// OpRead reads a resource
	OpRead
	// OpCreate creates a resource
	OpCreate
	// OpUpdate modifies a resource
	OpUpdate
	// OpDelete removes a resource
	OpDelete
)

// ParseOperation maps an HTTP verb (case-insensitive) to an Operation.
func ParseOperation(method string) Operation {
	switch strings.ToUpper(strings.TrimSpace(method)) {
	case "GET", "HEAD":
		return OpRead
	case "POST":
		return OpCreate
	case "PUT", "PATCH":
		return OpUpdate
	case "DELETE":
		return OpDelete
	default:
		return OpUnknown
	}
}

// String returns a human-readable label for the operation.
func (o Operation) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Method returns the canonical HTTP verb for the operation, or "" for OpUnknown.
func (o Operation) Method() string {
	switch o {
	case OpRead:
		return "GET"
	case OpCreate:
		return "POST"
	case OpUpdate:
		return "PUT"
	case OpDelete:
		return "DELETE"
	default:
		return ""
	}
}
