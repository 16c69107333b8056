// Package kit holds small transport helpers shared by tool surfaces.
package kit

import "context"

// Endpoint is a transport-agnostic handler: typed request in, typed
// response out. Transports adapt their own envelopes around it.
type Endpoint func(ctx context.Context, req any) (any, error)
