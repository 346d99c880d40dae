package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
)

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventDelete EventType = "DELETE"
)

// Event is the command envelope carried on the entity topics. CREATE carries
// the full entity payload; DELETE carries a null payload and only the key.
// The key doubles as the Kafka message key, so all events for one productId
// stay in emission order on one partition.
type Event[T any] struct {
	EventType      EventType `json:"eventType"`
	Key            int       `json:"key"`
	Data           *T        `json:"data"`
	EventCreatedAt time.Time `json:"eventCreatedAt"`
}

func NewCreateEvent[T any](key int, data T) Event[T] {
	return Event[T]{
		EventType:      EventCreate,
		Key:            key,
		Data:           &data,
		EventCreatedAt: time.Now().UTC(),
	}
}

func NewDeleteEvent[T any](key int) Event[T] {
	return Event[T]{
		EventType:      EventDelete,
		Key:            key,
		EventCreatedAt: time.Now().UTC(),
	}
}

// DecodeEvent parses a raw message body into an envelope with the payload
// left as raw JSON, to be parsed per event type by the handler.
func DecodeEvent(body []byte) (Event[json.RawMessage], error) {
	var ev Event[json.RawMessage]
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event[json.RawMessage]{}, fmt.Errorf("%w: malformed event: %v", app.ErrEventProcessing, err)
	}
	return ev, nil
}
