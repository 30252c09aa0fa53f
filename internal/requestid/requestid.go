// Package requestid carries the correlation id of an inbound request to outbound backend calls.
package requestid

import (
	"context"
)

// Header used on inbound and outbound requests
const Header = "X-Request-ID"

type ctxKey struct{}

func New(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns request id or empty string
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
