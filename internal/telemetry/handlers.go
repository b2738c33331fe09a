package telemetry

import (
	"context"

	"github.com/arlebrun/devkitd/internal/infrastructure/logging"
	"github.com/arlebrun/devkitd/internal/infrastructure/mqtt"
)

// maxJournaledCommand caps how much of an inbound command payload is
// copied into the journal.
const maxJournaledCommand = 256

// LED is the control surface the led-topic handler drives.
// *board.LoggingLED satisfies it.
type LED interface {
	Set(on bool)
}

// NewLEDHandler returns the handler for the led topic.
//
// Bodies "ON" and "OFF" drive the LED; anything else is reported and
// dropped, matching the firmware's exact-match behaviour.
func NewLEDHandler(led LED, log *logging.Logger) mqtt.MessageHandler {
	if log == nil {
		log = logging.Default()
	}
	log = log.With("component", "telemetry")

	return func(topic string, payload []byte) error {
		switch string(payload) {
		case "ON":
			led.Set(true)
		case "OFF":
			led.Set(false)
		default:
			log.Warn("unknown led payload", "payload", string(payload))
		}
		return nil
	}
}

// NewCommandHandler returns the handler for the command topic.
//
// Inbound commands are logged and journaled; the agent does not act on
// them. The firmware printed them to the console and nothing more.
func NewCommandHandler(log *logging.Logger, events EventRecorder) mqtt.MessageHandler {
	if log == nil {
		log = logging.Default()
	}
	log = log.With("component", "telemetry")

	return func(topic string, payload []byte) error {
		body := string(payload)
		log.Info("command received", "topic", topic, "payload", body)

		if events != nil {
			if len(body) > maxJournaledCommand {
				body = body[:maxJournaledCommand]
			}
			events.RecordEvent(context.Background(), "command_received", map[string]any{
				"payload": body,
			})
		}
		return nil
	}
}
