package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/atonixcorp/atonix-go/internal/domain"
	"github.com/atonixcorp/atonix-go/internal/logger"
	"github.com/atonixcorp/atonix-go/internal/storage"
	"github.com/atonixcorp/atonix-go/pkg/atonix"
	"github.com/atonixcorp/atonix-go/pkg/publishers"
	"github.com/google/uuid"
)

// Service runs evidence collection and attestation calls, journals every
// attempt and forwards successful results to the configured sinks.
type Service struct {
	api       API
	publisher EventPublisher
	store     storage.Store
	log       logger.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires a compliance runner. publisher and store may be nil.
func NewService(api API, publisher EventPublisher, store storage.Store, log logger.Logger) *Service {
	return &Service{
		api:       api,
		publisher: publisher,
		store:     store,
		log:       logger.Ensure(log),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CollectEvidence triggers evidence collection for framework (soc2 when blank).
func (s *Service) CollectEvidence(ctx context.Context, framework string) ([]byte, error) {
	run := domain.Run{
		Operation: domain.OperationCollectEvidence,
		Framework: atonix.NormalizeFramework(framework),
	}
	return s.execute(ctx, run, func(ctx context.Context) ([]byte, error) {
		return s.api.CollectEvidence(ctx, run.Framework)
	})
}

// Attest creates an attestation for framework over [periodStart, periodEnd].
func (s *Service) Attest(ctx context.Context, framework, periodStart, periodEnd string) ([]byte, error) {
	run := domain.Run{
		Operation:   domain.OperationAttestation,
		Framework:   atonix.NormalizeFramework(framework),
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}
	return s.execute(ctx, run, func(ctx context.Context) ([]byte, error) {
		return s.api.Attestation(ctx, run.Framework, periodStart, periodEnd)
	})
}

// execute performs call and records the outcome. The API error is returned
// unchanged; journal and publish failures are only logged because the
// server-side effect has already happened.
func (s *Service) execute(ctx context.Context, run domain.Run, call func(context.Context) ([]byte, error)) ([]byte, error) {
	if s == nil || s.api == nil {
		return nil, fmt.Errorf("compliance service is not initialized")
	}

	run.ID = s.newID()
	run.BaseURL = s.api.BaseURL()
	run.StartedAt = s.now().UTC()

	body, err := call(ctx)
	run.FinishedAt = s.now().UTC()
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		if apiErr, ok := atonix.AsAPIError(err); ok {
			run.StatusCode = apiErr.StatusCode
		}
	} else {
		run.Status = domain.RunOK
	}

	s.record(run)
	if err != nil {
		s.log.ErrorObj("compliance run failed", "run", run)
		return nil, err
	}

	s.log.InfoObj("compliance run completed", "run", map[string]any{
		"id":         run.ID,
		"operation":  run.Operation,
		"framework":  run.Framework,
		"elapsed_ms": run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	})
	s.publish(ctx, run, body)
	return body, nil
}

func (s *Service) record(run domain.Run) {
	if s.store == nil {
		return
	}
	if err := s.store.Record(run); err != nil {
		s.log.WarnObj("journal write failed", "journal_error", map[string]any{
			"run_id": run.ID,
			"error":  err.Error(),
		})
	}
}

func (s *Service) publish(ctx context.Context, run domain.Run, body []byte) {
	if s.publisher == nil {
		return
	}
	delivered, err := s.publisher.Publish(ctx, publishers.NewEvent(run, body))
	if err != nil {
		s.log.WarnObj("event publish failed", "publish_error", map[string]any{
			"run_id":    run.ID,
			"delivered": delivered,
			"error":     err.Error(),
		})
		return
	}
	s.log.DebugObj("event published", "publish_result", map[string]any{
		"run_id":    run.ID,
		"delivered": delivered,
	})
}
