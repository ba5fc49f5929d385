// Package workers runs background jobs next to the HTTP and gRPC servers.
package workers

import (
	"context"

	"github.com/MKhiriev/go-doc-verifier/models"
)

// Worker is a background job. Run must not block: implementations start
// their own goroutine and stop it when ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}

// StatusCounter counts documents in a review state.
type StatusCounter interface {
	CountByStatus(ctx context.Context, status models.DocumentStatus) (int, error)
}

// PendingGauge receives the number of documents waiting for review.
type PendingGauge interface {
	SetPending(n int)
}
