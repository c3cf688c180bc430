package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/statebus"
	"github.com/nfrund/statebus/topicsfile"
)

var demoTopicsFile string

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a publish/subscribe/clear walkthrough",
	Long: `Run a short session against an in-process broker: configure a topic
with a default, subscribe, publish a value and clear it again, printing every
delivery as it arrives. Pass --file to load additional topics first.

Set SHOW_WARNINGS=false to silence the broker's warning sink.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := statebus.New(statebus.WithWarnings(showWarnings()))
		defer bus.Close()

		if demoTopicsFile != "" {
			if err := topicsfile.Apply(bus, afero.NewOsFs(), demoTopicsFile); err != nil {
				return err
			}
		}

		if err := bus.AddTopic(statebus.TopicConfig{
			Name:        "greeting",
			Description: "Who to greet",
			Default:     "World",
		}); err != nil {
			return err
		}

		unsubscribe, err := bus.SubscribeFunc("greeting", func(value any, topic string) {
			fmt.Printf("delivered %v on %q\n", value, topic)
		})
		if err != nil {
			return err
		}
		defer unsubscribe()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		// Priming delivers the default first.
		if err := bus.Drain(ctx); err != nil {
			return err
		}

		if err := bus.Publish("greeting", "Jill"); err != nil {
			return err
		}
		if err := bus.Drain(ctx); err != nil {
			return err
		}

		if err := bus.Clear("greeting"); err != nil {
			return err
		}
		if err := bus.Drain(ctx); err != nil {
			return err
		}

		fmt.Printf("current value: %v\n", bus.CurrentVal("greeting", nil))
		return nil
	},
}

func showWarnings() bool {
	raw := os.Getenv("SHOW_WARNINGS")
	if raw == "" {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return enabled
}

func init() {
	demoCmd.Flags().StringVar(&demoTopicsFile, "file", "", "topics file to load before the walkthrough")
	rootCmd.AddCommand(demoCmd)
}
