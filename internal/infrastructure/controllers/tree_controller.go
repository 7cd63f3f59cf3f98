package controllers

import (
	"io"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depwatch/internal/domain/commands"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// TreeController handles the "tree" subcommand.
type TreeController struct {
	command commands.Tree
}

// NewTreeController creates a new TreeController.
func NewTreeController(command commands.Tree) *TreeController {
	return &TreeController{command: command}
}

// GetBind returns the Cobra command metadata for the tree controller.
func (it *TreeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "tree [path]",
		Short: "Print the resolved dependency tree",
		Long: `Print the resolved dependency tree of a project. When the package
manager cannot list installed packages, only the declared dependencies
are shown.`,
	}
}

// Execute prints the dependency tree.
func (it *TreeController) Execute(cmd *cobra.Command, args []string) {
	format, err := outputFormat(cmd)
	if err != nil {
		logger.Error(err)
		return
	}

	tree, err := it.command.BuildDependencyTree(cmd.Context(), projectArg(args))
	if err != nil {
		logger.Errorf("Failed to build the dependency tree: %v", err)
		return
	}

	if renderErr := render(cmd.OutOrStdout(), format, tree, func(w io.Writer) {
		writeTree(w, tree, "", true, true)
	}); renderErr != nil {
		logger.Errorf("Failed to write the dependency tree: %v", renderErr)
	}
}
