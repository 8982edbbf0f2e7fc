// Package delivery defines the contract every transport front-end (HTTP
// today, others later) satisfies so cmd/server can start them uniformly
// through the fx value group.
package delivery

import "context"

// Delivery is a long-running transport server. Serve blocks until the
// server stops or fails; shutdown happens through the fx lifecycle hook
// each implementation registers.
type Delivery interface {
	Serve(ctx context.Context) error
}
