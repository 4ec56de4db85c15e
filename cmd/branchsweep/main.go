// Package main is the entry point for the branchsweep application.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/branchsweep/branchsweep/internal/app"
	"github.com/branchsweep/branchsweep/internal/buildinfo"
	"github.com/branchsweep/branchsweep/internal/config"
	"github.com/branchsweep/branchsweep/internal/forge"
	"github.com/branchsweep/branchsweep/internal/git"
	"github.com/branchsweep/branchsweep/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, builtBy)
	buildinfo.Enrich()

	cliApp := &urfavecli.App{
		Name:                 "branchsweep",
		Usage:                "Clean up local branches whose pull requests are merged",
		Version:              buildinfo.Version(),
		EnableBashCompletion: true,

		Flags: globalFlags(),

		Commands: []*urfavecli.Command{
			listCommand(),
		},

		Action: runTUI,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runTUI is the default action that launches the TUI when no
// subcommand is given.
func runTUI(c *urfavecli.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("stdout is not a terminal; use `branchsweep list` for scripted output")
	}

	cfg, gitSvc, provider, err := setup(c)
	if err != nil {
		_ = log.Close()
		return err
	}

	model := app.NewModel(c.Context, cfg, gitSvc, provider)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		_ = log.Close()
		return fmt.Errorf("error running app: %w", err)
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
	}
	return nil
}

// setup wires config, logging, the git service and the PR status
// provider shared by the TUI and the list subcommand.
func setup(c *urfavecli.Context) (*config.AppConfig, *git.Service, forge.StatusProvider, error) {
	if debugLog := c.String("debug-log"); debugLog != "" {
		if err := log.SetFile(debugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", debugLog, err)
		}
	}

	cfg, err := config.LoadConfig(c.String("config-file"))
	if err != nil {
		return nil, nil, nil, err
	}

	if c.String("debug-log") == "" {
		// No flag; honor the config value or drop buffered logs.
		if err := log.SetFile(cfg.DebugLog); err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log file %q: %v\n", cfg.DebugLog, err)
		}
	}

	if themeName := c.String("theme"); themeName != "" {
		if err := validateTheme(themeName); err != nil {
			return nil, nil, nil, err
		}
		cfg.Theme = themeName
	}
	if extra := c.StringSlice("protected"); len(extra) > 0 {
		cfg.ProtectedBranches = append(cfg.ProtectedBranches, extra...)
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if c.Bool("offline") {
		cfg.Offline = true
	}
	if c.Bool("force") {
		cfg.Force = true
	}

	gitSvc := git.NewService(".")
	if err := gitSvc.EnsureRepository(c.Context); err != nil {
		return nil, nil, nil, err
	}

	provider, err := buildProvider(c, cfg, gitSvc)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, gitSvc, provider, nil
}

// buildProvider picks the PR status source. Anything that rules out
// GitHub lookups (offline flag, non-GitHub remote, missing remote)
// degrades to the offline provider rather than failing.
func buildProvider(c *urfavecli.Context, cfg *config.AppConfig, gitSvc *git.Service) (forge.StatusProvider, error) {
	if cfg.Offline {
		return forge.Offline{}, nil
	}

	var owner, repo string
	if ref := c.String("repo"); ref != "" {
		parts := strings.SplitN(ref, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid --repo %q, want owner/name", ref)
		}
		owner, repo = parts[0], parts[1]
	} else {
		remote, err := gitSvc.RemoteURL(c.Context)
		if err != nil || remote == "" {
			log.Printf("no origin remote, running offline: %v", err)
			return forge.Offline{}, nil
		}
		owner, repo, err = forge.ParseGitHubRemote(remote)
		if err != nil {
			log.Printf("remote %q is not GitHub, running offline: %v", remote, err)
			return forge.Offline{}, nil
		}
	}

	token, source, err := forge.ResolveToken(c.Context, c.String("token"))
	if err != nil {
		log.Printf("token resolution failed: %v", err)
	}
	log.Printf("github provider for %s/%s (token via %s)", owner, repo, source)
	return forge.NewGitHub(token, owner, repo), nil
}
