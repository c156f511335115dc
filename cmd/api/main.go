package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "forensic-audit",
		Short:         "Forensic audit session service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $CONFIG_PATH)")

	cfgPath := func() string {
		if configPath != "" {
			return configPath
		}
		return os.Getenv("CONFIG_PATH")
	}

	root.AddCommand(
		newServeCmd(cfgPath),
		newNIFCmd(),
		newHashCmd(),
		newJournalCmd(cfgPath),
		newReportCmd(cfgPath),
	)
	return root
}
