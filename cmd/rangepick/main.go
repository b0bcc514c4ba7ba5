package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rangepick",
		Short:         "Date and time range picker (web or terminal)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
		},
	}
	root.Version = appVersion
	root.SetVersionTemplate("rangepick v{{.Version}}\n")

	root.AddCommand(newServeCommand(), newTUICommand(), newPruneCommand())
	return root
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Printf("rangepick: %v", err)
		os.Exit(1)
	}
}
