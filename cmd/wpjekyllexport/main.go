package main

import (
	"os"

	"github.com/spf13/cobra"

	"WpJekyllExport/internal/app"
	"WpJekyllExport/internal/config"
	"WpJekyllExport/internal/logging"
)

func main() {
	var configPath string
	var buildDir string

	root := &cobra.Command{
		Use:          "wpjekyllexport",
		Short:        "Convert WordPress XML exports to a Jekyll site tree",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if buildDir != "" {
				cfg.BuildDir = buildDir
			}

			logger := logging.New(cfg.Logging.Level)
			application, err := app.New(cfg, logger)
			if err != nil {
				logger.Error("application setup failed", "error", err)
				return err
			}

			return application.Run(cmd.Context())
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "path to config.yaml")
	root.Flags().StringVar(&buildDir, "build-dir", "", "override output build directory")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
