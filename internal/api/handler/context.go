package handler

import (
	"context"

	"github.com/alcoholemia/alcoholemia/internal/api/middleware"
)

// GetOperator retrieves the authenticated admin operator from the context.
// This is a convenience wrapper around middleware.GetOperator.
func GetOperator(ctx context.Context) string {
	return middleware.GetOperator(ctx)
}
