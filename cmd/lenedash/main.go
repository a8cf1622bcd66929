package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/lenedash/lenedash/internal/config"
	"github.com/lenedash/lenedash/internal/version"
)

func main() {
	if os.Getenv("LENEDASH_DEBUG") != "" {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		fmt.Fprintf(os.Stderr, "Config path: %s\n", config.ConfigPath())
		os.Exit(1)
	}

	var serverFlag string

	root := cobra.Command{
		Use:   "lenedash",
		Short: "Lenedash is a terminal dashboard for Leneda smart-meter energy data.",
		Run: func(_ *cobra.Command, _ []string) {
			if serverFlag != "" {
				cfg.ServerURL = serverFlag
			}
			runDashboard(cfg)
		},
	}
	root.Flags().StringVar(&serverFlag, "server", "", "dashboard backend URL (overrides settings)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.String())
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
