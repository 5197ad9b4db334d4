package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/team-management/internal/core/events"
	"github.com/frahmantamala/team-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker processes",
	Long:  `Start and manage background workers, currently the provisioning event bus.`,
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus with the provisioning audit subscribers attached`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

func startEventWorker() {
	lg := logger.L()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe(events.ProfileProvisionedEventType, func(ctx context.Context, event events.Event) error {
		lg.Info("profile provisioned",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	eventBus.Subscribe(events.ProvisioningFailedEventType, func(ctx context.Context, event events.Event) error {
		lg.Error("provisioning failed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	eventBus.Subscribe(events.OrganizationCreatedEventType, func(ctx context.Context, event events.Event) error {
		lg.Info("organization created",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	fmt.Println("Event worker started. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	lg.Info("event worker stopped")
}

func init() {
	workerCmd.AddCommand(eventWorkerCmd)
}
