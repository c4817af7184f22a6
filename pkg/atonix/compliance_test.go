package atonix

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestComplianceControlsDefaultsFramework(t *testing.T) {
	cases := map[string]string{
		"":        "soc2",
		"   ":     "soc2",
		"pci":     "pci",
		"gdpr":    "gdpr",
		"a&b=c d": "a%26b%3Dc+d",
	}
	for in, want := range cases {
		f := &fakeHTTP{}
		if _, err := newFakeClient(f).ComplianceControls(context.Background(), in); err != nil {
			t.Fatalf("ComplianceControls(%q): %v", in, err)
		}
		req := f.last(t)
		if req.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", req.Method)
		}
		wantURL := "https://api.example.com/api/services/compliance/control_status/?framework=" + want
		if req.URL != wantURL {
			t.Fatalf("ComplianceControls(%q) url = %s, want %s", in, req.URL, wantURL)
		}
		if req.Headers["Content-Type"] != "application/json" {
			t.Fatalf("GET missing Content-Type header")
		}
	}
}

func TestCollectEvidenceBody(t *testing.T) {
	cases := map[string]string{
		"":         `{"framework":"soc2"}`,
		" ":        `{"framework":"soc2"}`,
		"iso27001": `{"framework":"iso27001"}`,
		`x"y\z`:    `{"framework":"x\"y\\z"}`,
	}
	for in, want := range cases {
		f := &fakeHTTP{}
		if _, err := newFakeClient(f).CollectEvidence(context.Background(), in); err != nil {
			t.Fatalf("CollectEvidence(%q): %v", in, err)
		}
		req := f.last(t)
		if req.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", req.Method)
		}
		if req.URL != "https://api.example.com/api/services/compliance/collect_evidence/" {
			t.Fatalf("unexpected url %s", req.URL)
		}
		if string(req.Body) != want {
			t.Fatalf("CollectEvidence(%q) body = %s, want %s", in, req.Body, want)
		}
	}
}

func TestAttestationBody(t *testing.T) {
	f := &fakeHTTP{body: `{"id":7}`}
	got, err := newFakeClient(f).Attestation(context.Background(), "", "2026-01-01", "2026-03-31")
	if err != nil {
		t.Fatalf("Attestation: %v", err)
	}
	if string(got) != `{"id":7}` {
		t.Fatalf("unexpected body %q", got)
	}
	req := f.last(t)
	if req.URL != "https://api.example.com/api/services/compliance/attestation/" {
		t.Fatalf("unexpected url %s", req.URL)
	}
	want := `{"framework":"soc2","period_end":"2026-03-31","period_start":"2026-01-01"}`
	if string(req.Body) != want {
		t.Fatalf("body = %s, want %s", req.Body, want)
	}
}

func TestNormalizeFramework(t *testing.T) {
	if got := NormalizeFramework("\t"); got != DefaultFramework {
		t.Fatalf("expected default framework, got %q", got)
	}
	if got := NormalizeFramework(" pci "); got != " pci " {
		t.Fatalf("non-blank framework must pass through untouched, got %q", got)
	}
	if !strings.Contains(strings.Join(KnownFrameworks, ","), DefaultFramework) {
		t.Fatalf("default framework missing from known frameworks")
	}
}
