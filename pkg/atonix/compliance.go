package atonix

import (
	"context"
	"net/url"
	"strings"
)

const (
	pathControlStatus   = "/api/services/compliance/control_status/"
	pathCollectEvidence = "/api/services/compliance/collect_evidence/"
	pathAttestation     = "/api/services/compliance/attestation/"
)

// KnownFrameworks lists the frameworks the server documents. Other identifiers
// are passed through untouched.
var KnownFrameworks = []string{"soc2", "iso27001", "gdpr"}

// NormalizeFramework substitutes DefaultFramework for a blank value.
func NormalizeFramework(framework string) string {
	if strings.TrimSpace(framework) == "" {
		return DefaultFramework
	}
	return framework
}

// ComplianceControls fetches the control status for framework (soc2 when blank).
func (c *Client) ComplianceControls(ctx context.Context, framework string) ([]byte, error) {
	f := NormalizeFramework(framework)
	return c.get(ctx, pathControlStatus+"?framework="+url.QueryEscape(f))
}

// CollectEvidence asks the server to collect an evidence pack for framework (soc2 when blank).
func (c *Client) CollectEvidence(ctx context.Context, framework string) ([]byte, error) {
	f := NormalizeFramework(framework)
	return c.postJSON(ctx, pathCollectEvidence, map[string]string{"framework": f})
}

// Attestation creates a compliance attestation covering [periodStart, periodEnd].
// Dates are passed through as given; the server expects YYYY-MM-DD.
func (c *Client) Attestation(ctx context.Context, framework, periodStart, periodEnd string) ([]byte, error) {
	f := NormalizeFramework(framework)
	return c.postJSON(ctx, pathAttestation, map[string]string{
		"framework":    f,
		"period_start": periodStart,
		"period_end":   periodEnd,
	})
}
