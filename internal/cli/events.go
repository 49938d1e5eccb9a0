package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/kafka"
	"github.com/spf13/cobra"
)

func EventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the notification topic",
	}

	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print notification events as they arrive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.KafkaService.Enabled() {
				return fmt.Errorf("kafka_service.host is not configured")
			}
			group, _ := cmd.Flags().GetString("group")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sub := kafka.NewDefaultKafkaSubscriber([]string{cfg.KafkaService.Broker()})
			msgs, err := sub.Subscribe(ctx, cfg.KafkaService.Topic, group)
			if err != nil {
				return err
			}
			for m := range msgs {
				event, err := kafka.DecodeNotificationEvent(m)
				if err != nil {
					fmt.Println(color.New(color.FgRed).Sprint(err.Error()))
					continue
				}
				fmt.Printf("%s %s %s %v\n",
					event.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
					color.New(color.FgCyan).Sprint(event.EventKind),
					event.UserID,
					event.Payload,
				)
			}
			return nil
		},
	}
	tailCmd.Flags().String("group", "disputectl", "kafka consumer group")

	eventsCmd.AddCommand(tailCmd)
	return eventsCmd
}
