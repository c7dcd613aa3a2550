package main

import (
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the app manifest",
		Long: `Parse and validate skiff.yaml.

Checks YAML syntax, route entries, the base URL, the dev server
address, and environment variable references.

Examples:
  skiff validate
  skiff validate --config=deploy/skiff.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(manifestPath)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "config", "c", "", "Path to skiff.yaml")

	return cmd
}

func runValidate(manifestPath string) error {
	cfg, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}

	success("%s is valid", cfg.Path())
	info("title:  %s", cfg.Title)
	info("root:   %s", cfg.Root)
	info("dir:    %s", cfg.AppDir())
	info("routes: %d", len(cfg.Routes))
	if cfg.BaseURL == "" {
		warn("base_url is not set; relative view sources need one at runtime")
	}
	return nil
}
