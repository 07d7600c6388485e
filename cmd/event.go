package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/identity-access/internal/core/events"
	"github.com/frahmantamala/identity-access/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events, monitor event bus, inspect handlers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a test security event",
	Long:  `Publish a test login-failed event to the event bus for testing and debugging`,
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent()
	},
}

var eventUserID string

func publishTestEvent() {
	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe(events.EventTypeLoginFailed, func(ctx context.Context, event events.Event) error {
		logger.Info("test handler received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	testEvent := events.NewLoginFailedEvent(eventUserID, 2, events.DeviceMetadata{
		IP:        "127.0.0.1",
		UserAgent: "cli-command",
	})

	logger.Info("publishing test event", "event_type", testEvent.EventType(), "event_id", testEvent.EventID())

	ctx := context.Background()
	if err := eventBus.Publish(ctx, testEvent); err != nil {
		logger.Error("failed to publish event", "error", err)
		return
	}

	time.Sleep(100 * time.Millisecond)
	logger.Info("test event published successfully")
}

func init() {

	publishEventCmd.Flags().StringVar(&eventUserID, "user", "test-user", "User id carried by the test event")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
