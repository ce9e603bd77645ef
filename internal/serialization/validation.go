package serialization

import (
	"fmt"
)

// Validation limits for resource protection.
const (
	MaxHeaderSize   = 64 * 1024 * 1024 // 64MB - maximum header size
	MaxParamCount   = 1_000_000        // Maximum number of parameters in a file
	MaxParamNameLen = 1024             // Maximum parameter name length
)

// ValidateHeader checks the parameter layout described by a header.
//
// Every parameter must have a unique, non-empty name and occupy its own
// 8-byte slot inside the data section, which holds exactly len(Params) slots.
func ValidateHeader(h *Header) error {
	if len(h.Params) > MaxParamCount {
		return &ValidationError{
			Type:    "too_many_params",
			Details: fmt.Sprintf("got %d, max %d", len(h.Params), MaxParamCount),
			Err:     ErrTooManyParams,
		}
	}

	dataSize := int64(len(h.Params) * ParamSize)
	names := make(map[string]bool, len(h.Params))
	offsets := make(map[int64]string, len(h.Params))

	for _, p := range h.Params {
		if p.Name == "" || len(p.Name) > MaxParamNameLen {
			return &ValidationError{
				Type:    "invalid_name",
				Param:   p.Name,
				Details: fmt.Sprintf("name length %d not in [1, %d]", len(p.Name), MaxParamNameLen),
				Err:     ErrInvalidParamName,
			}
		}
		if names[p.Name] {
			return &ValidationError{
				Type:    "duplicate_name",
				Param:   p.Name,
				Details: "name appears more than once",
				Err:     ErrInvalidParamName,
			}
		}
		names[p.Name] = true

		if p.Offset < 0 || p.Offset%ParamSize != 0 || p.Offset+ParamSize > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Param:   p.Name,
				Details: fmt.Sprintf("offset %d outside data section of %d bytes", p.Offset, dataSize),
				Err:     ErrOutOfBounds,
			}
		}
		if other, dup := offsets[p.Offset]; dup {
			return &ValidationError{
				Type:    "offset_overlap",
				Param:   p.Name,
				Details: fmt.Sprintf("shares offset %d with %q", p.Offset, other),
				Err:     ErrOutOfBounds,
			}
		}
		offsets[p.Offset] = p.Name
	}

	return nil
}
