// Package consumer turns command events into store operations, translating
// store errors into terminal or retryable outcomes. Terminal events are
// logged and dropped; retryable errors bubble to the consumer loop.
package consumer

import (
	"errors"
	"fmt"

	kaf "github.com/reybrally/product-composite-service/internal/adapters/kafka"
	app "github.com/reybrally/product-composite-service/internal/app/catalog"
)

// terminal reports errors that must not be retried: malformed or duplicate
// events. Redelivery cannot fix them, so the message is dropped.
func terminal(err error) bool {
	return errors.Is(err, app.ErrEventProcessing) || errors.Is(err, app.ErrInvalidInput)
}

func unknownTypeErr(msg kaf.Message) error {
	return fmt.Errorf("%w: incorrect event type: %q, expected CREATE or DELETE",
		app.ErrEventProcessing, msg.Envelope.EventType)
}
