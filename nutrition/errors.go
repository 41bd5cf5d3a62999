package nutrition

import "errors"

var (
	ErrInvalidTable   = errors.New("invalid nutrition table")
	ErrInvalidProfile = errors.New("invalid user profile")
)
