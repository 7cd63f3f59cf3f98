package controllers

import (
	"io"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/sbom"
)

// SBOMController handles the "sbom" subcommand.
type SBOMController struct {
	analyze commands.Analyze
	tree    commands.Tree
}

// NewSBOMController creates a new SBOMController.
func NewSBOMController(analyze commands.Analyze, tree commands.Tree) *SBOMController {
	return &SBOMController{analyze: analyze, tree: tree}
}

// GetBind returns the Cobra command metadata for the sbom controller.
func (it *SBOMController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "sbom [path]",
		Short: "Export a CycloneDX bill of materials",
		Long: `Export the resolved dependency tree of a project as a CycloneDX JSON
bill of materials, including licenses and known vulnerabilities.`,
	}
}

// Execute builds and writes the bill of materials.
func (it *SBOMController) Execute(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	projectPath := projectArg(args)

	tree, err := it.tree.BuildDependencyTree(ctx, projectPath)
	if err != nil {
		logger.Errorf("Failed to build the dependency tree: %v", err)
		return
	}
	result, err := it.analyze.Analyze(ctx, projectPath)
	if err != nil {
		logger.Errorf("Analysis failed: %v", err)
		return
	}

	var out io.Writer = cmd.OutOrStdout()
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		handle, createErr := os.Create(file)
		if createErr != nil {
			logger.Errorf("Failed to create %s: %v", file, createErr)
			return
		}
		defer handle.Close()
		out = handle
		logger.Infof("Writing SBOM to %s", file)
	}

	if writeErr := sbom.Write(out, sbom.Build(tree, result.Dependencies, result.Vulnerabilities)); writeErr != nil {
		logger.Error(writeErr)
	}
}

// AddFlags adds the sbom-specific flags to the given Cobra command.
func (it *SBOMController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Write the SBOM to this file instead of stdout")
}
