package ports

import (
	"context"

	"github.com/bft-labs/knapsack/internal/domain"
)

// ProblemSender submits a problem instance to the knapsack service.
type ProblemSender interface {
	// Send posts p once and returns the HTTP status code of the reply.
	// The reply is not interpreted: a non-2xx status is not an error.
	// Transport failures are returned as-is and are never retried.
	Send(ctx context.Context, p domain.Problem) (int, error)
}
