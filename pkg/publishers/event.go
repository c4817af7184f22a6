package publishers

import (
	"encoding/json"
	"time"

	"github.com/atonixcorp/atonix-go/internal/domain"
)

// Event is the payload forwarded downstream after a successful compliance run.
type Event struct {
	RunID       string           `json:"run_id"`
	Operation   domain.Operation `json:"operation"`
	Framework   string           `json:"framework"`
	BaseURL     string           `json:"base_url"`
	Response    json.RawMessage  `json:"response"`
	CollectedAt time.Time        `json:"collected_at"`
}

// NewEvent builds an Event for run. A response body that is not valid JSON
// is embedded as a JSON string so the event always encodes.
func NewEvent(run domain.Run, response []byte) Event {
	return Event{
		RunID:       run.ID,
		Operation:   run.Operation,
		Framework:   run.Framework,
		BaseURL:     run.BaseURL,
		Response:    rawResponse(response),
		CollectedAt: time.Now().UTC(),
	}
}

func rawResponse(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, _ := json.Marshal(string(body))
	return json.RawMessage(quoted)
}

// attributes returns the routing attributes attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"operation": string(e.Operation),
		"framework": e.Framework,
	}
}
