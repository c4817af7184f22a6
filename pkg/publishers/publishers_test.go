package publishers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atonixcorp/atonix-go/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: sns1
    type: SNS
    sns:
      topic_arn: " arn:aws:sns:us-east-1:123:evidence "
      region: us-east-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: compliance
      topic: evidence
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "sns1" || enabled[1].ID != "gcp" {
		t.Fatalf("expected sns1 and gcp enabled, got %#v", enabled)
	}
	all := reg.All()
	if len(all) != 3 || all[0].ID != "http1" || all[0].EnabledValue() {
		t.Fatalf("expected all entries in file order with http1 disabled, got %#v", all)
	}
	all[0].ID = "mutated"
	if got, _ := reg.ByID("http1"); got.ID != "http1" {
		t.Fatalf("All must return a copy")
	}
	sns, ok := reg.ByID("sns1")
	if !ok {
		t.Fatalf("expected sns1 to be indexed")
	}
	if sns.Type != TypeSNS || sns.SNS.TopicARN != "arn:aws:sns:us-east-1:123:evidence" {
		t.Fatalf("sns config not sanitized: %+v", sns.SNS)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs/q","region":"eu-west-1","credentials":{"access_key_id":"AK","secret_access_key":"SK"}}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	q, ok := reg.ByID("q")
	if !ok || q.SQS.Credentials == nil || q.SQS.Credentials.AccessKeyID != "AK" {
		t.Fatalf("unexpected sqs config %+v", q.SQS)
	}
}

func TestLoadRegistryRejectsDuplicates(t *testing.T) {
	path := writeFile(t, "publishers.yml", `
publishers:
  - id: dup
    type: http
    http: {url: https://a}
  - id: dup
    type: http
    http: {url: https://b}
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(writeFile(t, "p.yaml", "publishers: []\n")); err == nil {
		t.Fatalf("expected error for empty publishers list")
	}
	if _, err := LoadRegistry(writeFile(t, "p.toml", "publishers = []\n")); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestNormalizedHTTPDefaults(t *testing.T) {
	cfg := PublisherConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPPublisherConfig{URL: " https://x ", Headers: map[string]string{" ": "v", "K": " "}},
	}.normalized()
	if cfg.ID != "hook" || cfg.Type != TypeHTTP {
		t.Fatalf("id/type not trimmed: %+v", cfg)
	}
	if cfg.HTTP.Method != httpDefaultMethod || cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %+v", cfg.HTTP)
	}
	if cfg.HTTP.Headers != nil {
		t.Fatalf("expected empty headers to be dropped, got %v", cfg.HTTP.Headers)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("publishers default to enabled")
	}
}

func TestPublisherConfigValidate(t *testing.T) {
	bad := []PublisherConfig{
		{Type: TypeHTTP},
		{ID: "h1"},
		{ID: "h1", Type: TypeHTTP},
		{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
		{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "r"}},
		{ID: "p", Type: TypePubSub, PubSub: &PubSubConfig{ProjectID: "x"}},
		{ID: "k", Type: "kafka"},
	}
	for _, cfg := range bad {
		if err := cfg.validate(); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}
}

func TestNewEventWrapsNonJSONResponse(t *testing.T) {
	run := domain.Run{ID: "r", Operation: domain.OperationCollectEvidence, Framework: "gdpr", BaseURL: "https://api"}

	evt := NewEvent(run, []byte("queued"))
	if string(evt.Response) != `"queued"` {
		t.Fatalf("expected quoted text response, got %s", evt.Response)
	}
	if evt.BaseURL != "https://api" || evt.CollectedAt.IsZero() {
		t.Fatalf("event fields not populated: %+v", evt)
	}

	if got := NewEvent(run, nil).Response; string(got) != "null" {
		t.Fatalf("expected null for empty body, got %s", got)
	}
	if got := NewEvent(run, []byte(`[1,2]`)).Response; string(got) != `[1,2]` {
		t.Fatalf("expected JSON body to pass through, got %s", got)
	}
}
