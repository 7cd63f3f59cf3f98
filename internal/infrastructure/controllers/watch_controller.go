package controllers

import (
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// WatchController handles the "watch" subcommand.
type WatchController struct {
	command   commands.Analyze
	manifests repositories.ManifestRepository
	watcher   repositories.WatcherRepository
}

// NewWatchController creates a new WatchController.
func NewWatchController(
	command commands.Analyze,
	manifests repositories.ManifestRepository,
	watcher repositories.WatcherRepository,
) *WatchController {
	return &WatchController{command: command, manifests: manifests, watcher: watcher}
}

// GetBind returns the Cobra command metadata for the watch controller.
func (it *WatchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "watch [path]",
		Short: "Re-analyze a project whenever its manifest or lock file changes",
		Long: `Analyze a project, then watch its manifest and lock files. Every
change drops the cached analysis and prints a fresh one. Stops on
interrupt.`,
	}
}

// Execute blocks until the command context is cancelled.
func (it *WatchController) Execute(cmd *cobra.Command, args []string) {
	format, err := outputFormat(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	ctx := cmd.Context()
	projectPath := projectArg(args)
	out := cmd.OutOrStdout()

	report := func() {
		result, analyzeErr := it.command.Analyze(ctx, projectPath)
		if analyzeErr != nil {
			logger.Errorf("[watch] Analysis failed: %v", analyzeErr)
			return
		}
		if renderErr := render(out, format, result, func(w io.Writer) {
			writeAnalysis(w, result)
		}); renderErr != nil {
			logger.Errorf("[watch] Failed to write the analysis: %v", renderErr)
		}
	}

	report()
	err = it.watcher.Watch(ctx, projectPath, it.manifests.Files(projectPath), func(changed string) {
		logger.Infof("[watch] %s changed, re-analyzing", changed)
		it.command.ClearCache(projectPath)
		report()
	})
	if err != nil {
		logger.Errorf("[watch] %v", err)
	}
}
