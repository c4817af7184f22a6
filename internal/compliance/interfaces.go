package compliance

import (
	"context"

	"github.com/atonixcorp/atonix-go/pkg/publishers"
)

// API is the subset of the Atonix client used for mutating compliance calls.
type API interface {
	BaseURL() string
	CollectEvidence(ctx context.Context, framework string) ([]byte, error)
	Attestation(ctx context.Context, framework, periodStart, periodEnd string) ([]byte, error)
}

// EventPublisher forwards run results downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}
