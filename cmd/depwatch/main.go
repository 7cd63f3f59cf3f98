package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rios0rios0/depwatch/internal"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/controllers"
)

// flagAdder is implemented by controllers with subcommand-specific flags.
type flagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// bootstrapConfigPath extracts --config before the container is built, since
// the settings it names are needed to construct the controllers.
func bootstrapConfigPath(args []string) string {
	flags := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}
	configPath := flags.StringP("config", "c", "", "")
	_ = flags.Parse(args)
	return *configPath
}

func buildRootCommand(analyzeController *controllers.AnalyzeController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "depwatch [path]",
		Short: "Dependency graph analysis and risk engine for npm projects",
		Long: `Analyze the dependency graph of an npm project: vulnerabilities,
outdated, unused and duplicated packages, license compliance, and
prioritized recommendations. Updates are applied as one transaction
with backup, test run and rollback.

Usage modes:
  depwatch .                Analyze the current project
  depwatch update --dry-run Show the update plan
  depwatch watch            Re-analyze on every manifest change`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			if verbose, _ := command.Flags().GetBool("verbose"); verbose {
				logger.SetLevel(logger.DebugLevel)
			}
		},
		Run: func(command *cobra.Command, args []string) {
			analyzeController.Execute(command, args)
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().StringP("output", "o", "text",
		"Output format (text, json, yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  cobra.MaximumNArgs(1),
			Run: func(command *cobra.Command, arguments []string) {
				controller.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if adder, ok := controller.(flagAdder); ok {
			adder.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	configPath := entities.ConfigPath(bootstrapConfigPath(os.Args[1:]))
	appContext, analyzeController, err := injectAppContext(configPath)
	if err != nil {
		logger.Fatalf("Failed to start 'depwatch': %s", err)
	}

	cobraRoot := buildRootCommand(analyzeController)
	addSubcommands(cobraRoot, appContext)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = cobraRoot.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatalf("Error executing 'depwatch': %s", err)
	}
}
