// Package delivery defines the contract every inbound transport fulfils.
package delivery

import "context"

// Delivery is a long-running inbound surface, such as the HTTP server.
// Serve blocks until the surface stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
