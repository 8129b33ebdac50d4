package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/common/log"
	"github.com/haukened/discourse-new-tab/internal/dnt/config"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "dntctl"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err.Error()}, "Failed to build application")
	}

	ctx := context.Background()
	// Debug records are emitted at debug level, so the switch lowers the
	// log level for this run.
	if app.debugEnabled(ctx) && cfg.LogLevel != "debug" {
		if err := log.Configure(cfg.Env, "debug"); err != nil {
			log.Warn(map[string]any{"error": err.Error()}, "Failed to raise log level for debug output")
		}
	}

	err = newRootCommand(app).ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		log.Warn(map[string]any{"error": cerr.Error()}, "Error closing settings store")
	}
	if err != nil {
		os.Exit(1)
	}
}

// newRootCommand assembles the command tree around app.
func newRootCommand(app *Application) *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and configure discourse-new-tab link routing",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newDecideCommand(app),
		newDetectCommand(app),
		newActivateCommand(app),
		newRulesCommand(app),
		newFlagsCommand(app),
		newListsCommand(app),
		newModeCommand(app),
		newDebugCommand(app),
		newExportCommand(app),
	)
	return root
}
