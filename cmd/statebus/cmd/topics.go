package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nfrund/statebus"
	"github.com/nfrund/statebus/topicsfile"
)

var topicsFilePath string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Work with declared topic configurations",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the topics declared in a topics file",
	Long: `List every topic declared in a topics file.

Examples:
  statebus topics list
  statebus topics list --file config/topics.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := topicsfile.Load(afero.NewOsFs(), topicsFilePath)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDEFAULT\tFLAGS\tDESCRIPTION")
		fmt.Fprintln(w, "----\t-------\t-----\t-----------")
		for _, cfg := range configs {
			fmt.Fprintf(w, "%s\t%v\t%s\t%s\n", cfg.Name, cfg.Default, topicFlags(cfg), cfg.Description)
		}
		return w.Flush()
	},
}

var topicsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one topic's configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := topicsfile.Load(afero.NewOsFs(), topicsFilePath)
		if err != nil {
			return err
		}

		for _, cfg := range configs {
			if cfg.Name != args[0] {
				continue
			}
			fmt.Printf("Name:         %s\n", cfg.Name)
			fmt.Printf("Description:  %s\n", cfg.Description)
			fmt.Printf("Default:      %v\n", cfg.Default)
			fmt.Printf("EventOnly:    %t\n", cfg.EventOnly)
			fmt.Printf("DoPrime:      %t\n", cfg.DoPrime == nil || *cfg.DoPrime)
			fmt.Printf("AllowRepeats: %t\n", cfg.AllowRepeats)
			return nil
		}
		return fmt.Errorf("topic not found: %s", args[0])
	},
}

func topicFlags(cfg statebus.TopicConfig) string {
	var flags []string
	if cfg.EventOnly {
		flags = append(flags, "event-only")
	}
	if cfg.DoPrime != nil && !*cfg.DoPrime {
		flags = append(flags, "no-prime")
	}
	if cfg.AllowRepeats {
		flags = append(flags, "repeats")
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}

func init() {
	topicsCmd.PersistentFlags().StringVar(&topicsFilePath, "file", "topics.json", "path to the topics file")
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(topicsGetCmd)
	rootCmd.AddCommand(topicsCmd)
}
