package application

import "context"

// Worker represents a background maintenance loop, such as record retention.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}
