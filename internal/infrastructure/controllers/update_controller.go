package controllers

import (
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	recommend commands.Recommend
	update    commands.Update
	settings  *entities.Settings
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(
	recommend commands.Recommend,
	update commands.Update,
	settings *entities.Settings,
) *UpdateController {
	return &UpdateController{recommend: recommend, update: update, settings: settings}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update [path]",
		Short: "Apply recommended updates as one transaction",
		Long: `Apply the recommended updates admitted by the update strategy.

The manifest and lock files are backed up first, every update is
installed with the project's package manager, and the test suite is
run. Failing tests restore the backup.

Strategies:
  conservative  patch updates and non-breaking security fixes
  moderate      every non-breaking update plus security fixes
  aggressive    every update`,
	}
}

// Execute plans or applies the updates.
func (it *UpdateController) Execute(cmd *cobra.Command, args []string) {
	format, err := outputFormat(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	opts, err := it.options(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	securityOnly, _ := cmd.Flags().GetBool("security-only")

	projectPath := projectArg(args)
	candidates, err := it.recommend.GetUpdateRecommendations(cmd.Context(), projectPath, securityOnly)
	if err != nil {
		logger.Errorf("Update failed: %v", err)
		return
	}

	var result entities.UpdateResult
	if dryRun {
		logger.Info("Dry run: nothing will be changed")
		result = it.update.Plan(candidates, opts)
	} else {
		result = it.update.Execute(cmd.Context(), projectPath, candidates, opts)
	}

	if renderErr := render(cmd.OutOrStdout(), format, result, func(w io.Writer) {
		if dryRun {
			writeCandidates(w, result.Plan)
		}
		writeUpdateResult(w, result)
	}); renderErr != nil {
		logger.Errorf("Failed to write the update result: %v", renderErr)
	}
	if result.Err != nil {
		logger.Errorf("Update %s: %v", result.State, result.Err)
	}
}

// options starts from the configured defaults and applies the flags that
// were given explicitly.
func (it *UpdateController) options(cmd *cobra.Command) (entities.UpdateOptions, error) {
	opts, err := it.settings.UpdateOptions()
	if err != nil {
		return opts, err
	}

	flags := cmd.Flags()
	if flags.Changed("strategy") {
		raw, _ := flags.GetString("strategy")
		if opts.Strategy, err = entities.ParseUpdateStrategy(raw); err != nil {
			return opts, err
		}
	}
	if noBackup, _ := flags.GetBool("no-backup"); noBackup {
		opts.CreateBackup = false
	}
	if skipTests, _ := flags.GetBool("skip-tests"); skipTests {
		opts.RunTests = false
	}
	if autoResolve, _ := flags.GetBool("auto-resolve"); autoResolve {
		opts.AutoResolveConflicts = true
	}
	return opts, nil
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", it.settings.Update.Strategy,
		"Update strategy (conservative, moderate, aggressive)")
	cmd.Flags().Bool("no-backup", false, "Do not back up the manifest and lock files")
	cmd.Flags().Bool("skip-tests", false, "Do not run the test suite after updating")
	cmd.Flags().Bool("auto-resolve", false, "Apply breaking updates instead of stopping on conflicts")
	cmd.Flags().Bool("dry-run", false, "Show the update plan without changing anything")
	cmd.Flags().Bool("security-only", false, "Only apply updates that fix a known vulnerability")
}
