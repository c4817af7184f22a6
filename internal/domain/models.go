package domain

import "time"

// Operation names a mutating compliance call recorded in the journal.
type Operation string

const (
	OperationCollectEvidence Operation = "collect_evidence"
	OperationAttestation     Operation = "attestation"
)

// RunStatus is the outcome of a compliance run.
type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

// Run is one journaled call against the compliance API.
type Run struct {
	ID          string    `json:"id" yaml:"id"`
	Operation   Operation `json:"operation" yaml:"operation"`
	Framework   string    `json:"framework" yaml:"framework"`
	PeriodStart string    `json:"period_start,omitempty" yaml:"period_start,omitempty"`
	PeriodEnd   string    `json:"period_end,omitempty" yaml:"period_end,omitempty"`
	BaseURL     string    `json:"base_url" yaml:"base_url"`
	Status      RunStatus `json:"status" yaml:"status"`
	StatusCode  int       `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt  time.Time `json:"finished_at" yaml:"finished_at"`
}
