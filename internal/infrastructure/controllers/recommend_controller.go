package controllers

import (
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// RecommendController handles the "recommend" subcommand.
type RecommendController struct {
	command commands.Recommend
}

// NewRecommendController creates a new RecommendController.
func NewRecommendController(command commands.Recommend) *RecommendController {
	return &RecommendController{command: command}
}

// GetBind returns the Cobra command metadata for the recommend controller.
func (it *RecommendController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "recommend [path]",
		Short: "List prioritized update candidates",
		Long: `List the update candidates of a project, security fixes first.
Each candidate carries its update class, risk level and the packages
of the dependency tree that depend on it.`,
	}
}

// Execute lists the update candidates.
func (it *RecommendController) Execute(cmd *cobra.Command, args []string) {
	format, err := outputFormat(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	securityOnly, _ := cmd.Flags().GetBool("security-only")

	candidates, err := it.command.GetUpdateRecommendations(cmd.Context(), projectArg(args), securityOnly)
	if err != nil {
		logger.Errorf("Recommendation failed: %v", err)
		return
	}
	if candidates == nil {
		candidates = []entities.UpdateCandidate{}
	}

	if renderErr := render(cmd.OutOrStdout(), format, candidates, func(w io.Writer) {
		writeCandidates(w, candidates)
	}); renderErr != nil {
		logger.Errorf("Failed to write the recommendations: %v", renderErr)
	}
}

// AddFlags adds the recommend-specific flags to the given Cobra command.
func (it *RecommendController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("security-only", false, "Only list updates that fix a known vulnerability")
}
