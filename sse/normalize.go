package sse

import "encoding/json"

// Normalize reconciles the transport-level "id:" field with the
// application-level event_id carried inside the JSON payload. Some
// producers set only one of the two; callers should not lose event
// identity to that inconsistency.
//
// When the payload looks like an application event (has an "event_type"
// key) and its "event_id" is missing, null, or empty, the transport id is
// copied in. A payload that already carries a non-empty event_id wins over
// a disagreeing transport id. Normalize is idempotent.
func Normalize(ev Event) Event {
	if ev.ID == "" || len(ev.Data) == 0 {
		return ev
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return ev
	}
	if _, ok := payload["event_type"]; !ok {
		return ev
	}
	if raw, ok := payload["event_id"]; ok {
		var id string
		if err := json.Unmarshal(raw, &id); err == nil && id != "" {
			return ev
		}
	}

	id, err := json.Marshal(ev.ID)
	if err != nil {
		return ev
	}
	payload["event_id"] = id

	data, err := json.Marshal(payload)
	if err != nil {
		return ev
	}
	ev.Data = data
	return ev
}

// IsTerminal reports whether ev signals the end of the logical stream:
// either the "[DONE]" sentinel or a JSON payload with "done": true.
// Termination is a consumer-facing signal only; it does not close the
// underlying connection.
func IsTerminal(ev Event) bool {
	if ev.Done {
		return true
	}
	if len(ev.Data) == 0 {
		return false
	}
	var probe struct {
		Done bool `json:"done"`
	}
	if err := json.Unmarshal(ev.Data, &probe); err != nil {
		return false
	}
	return probe.Done
}
