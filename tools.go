//go:build tools

package tools

// Pin the swag CLI used to regenerate the OpenAPI docs.
import (
	_ "github.com/swaggo/swag"
)
