package mongo

import (
	"context"
	"errors"
)

// Pinger is anything that can verify its connection to MongoDB.
// *ActiveCollection implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthcheck returns a health check function suitable for Kubernetes readiness/liveness probes
// or HTTP health endpoints.
//
// With an *ActiveCollection the ping goes through the same lazy resolution
// and single retry as regular operations, so a probe also heals a handle whose
// client went stale.
func Healthcheck(p Pinger) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := p.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
