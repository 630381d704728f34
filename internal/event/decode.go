package event

import "encoding/json"

// DecodePayload converts an event payload into T. In-process events carry
// the concrete struct, so the assertion succeeds without allocation. Dead
// letter replays and other serialized sources arrive as generic maps and
// take the JSON round trip.
func DecodePayload[T any](payload interface{}) (T, error) {
	if typed, ok := payload.(T); ok {
		return typed, nil
	}

	var decoded T
	raw, err := json.Marshal(payload)
	if err != nil {
		return decoded, err
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return decoded, err
	}
	return decoded, nil
}
