package events

import (
	"encoding/json"
	"fmt"

	"video-svc/internal/domain/entities"
)

func Encode(event entities.VideoEvent) ([]byte, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize event: %w", err)
	}
	return b, nil
}

func Decode(data []byte) (entities.VideoEvent, error) {
	var event entities.VideoEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to deserialize event: %w", err)
	}
	if event.Type == "" || event.VideoID == 0 {
		return event, fmt.Errorf("incomplete event: %s", string(data))
	}
	return event, nil
}
