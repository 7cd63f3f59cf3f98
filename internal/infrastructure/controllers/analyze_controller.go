package controllers

import (
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// AnalyzeController handles the "analyze" subcommand and the bare root command.
type AnalyzeController struct {
	command commands.Analyze
}

// NewAnalyzeController creates a new AnalyzeController.
func NewAnalyzeController(command commands.Analyze) *AnalyzeController {
	return &AnalyzeController{command: command}
}

// GetBind returns the Cobra command metadata for the analyze controller.
func (it *AnalyzeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "analyze [path]",
		Short: "Analyze the dependencies of a project",
		Long: `Analyze the dependencies of an npm project.
Reports vulnerabilities, outdated, unused and duplicated packages,
license issues, prioritized recommendations and the security and
health scores of the project.`,
	}
}

// Execute runs the analysis and prints the result.
func (it *AnalyzeController) Execute(cmd *cobra.Command, args []string) {
	format, err := outputFormat(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	result, err := it.command.Analyze(cmd.Context(), projectArg(args))
	if err != nil {
		logger.Errorf("Analysis failed: %v", err)
		return
	}

	if renderErr := render(cmd.OutOrStdout(), format, result, func(w io.Writer) {
		writeAnalysis(w, result)
	}); renderErr != nil {
		logger.Errorf("Failed to write the analysis: %v", renderErr)
	}
}
