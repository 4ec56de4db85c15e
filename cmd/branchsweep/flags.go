// Package main provides CLI flag definitions for branchsweep.
package main

import (
	"fmt"
	"strings"

	"github.com/branchsweep/branchsweep/internal/theme"
	urfavecli "github.com/urfave/cli/v2"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via App.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.StringSliceFlag{
			Name:  "protected",
			Usage: "Additional protected branch (repeatable)",
		},
		&urfavecli.IntFlag{
			Name:  "concurrency",
			Usage: "Cap simultaneous PR lookups (0 = one per branch)",
		},
		&urfavecli.BoolFlag{
			Name:  "offline",
			Usage: "Skip GitHub lookups; every branch shows no PR",
		},
		&urfavecli.BoolFlag{
			Name:    "force",
			Aliases: []string{"f"},
			Usage:   "Delete with git branch -D instead of -d",
		},
		&urfavecli.StringFlag{
			Name:    "token",
			Usage:   "GitHub access token (defaults to GITHUB_TOKEN, then gh auth token)",
			EnvVars: []string{"BRANCHSWEEP_TOKEN"},
		},
		&urfavecli.StringFlag{
			Name:  "repo",
			Usage: "GitHub repository as owner/name (defaults to the origin remote)",
		},
	}
}

// validateTheme rejects unknown theme names instead of silently
// falling back.
func validateTheme(name string) error {
	if name == "" {
		return nil
	}
	for _, known := range theme.AvailableThemes() {
		if name == known {
			return nil
		}
	}
	return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(theme.AvailableThemes(), ", "))
}
