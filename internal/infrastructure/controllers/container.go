package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []interface{}{
		NewAnalyzeController,
		NewRecommendController,
		NewUpdateController,
		NewTreeController,
		NewSBOMController,
		NewWatchController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	analyzeController *AnalyzeController,
	recommendController *RecommendController,
	updateController *UpdateController,
	treeController *TreeController,
	sbomController *SBOMController,
	watchController *WatchController,
) *[]entities.Controller {
	return &[]entities.Controller{
		analyzeController,
		recommendController,
		updateController,
		treeController,
		sbomController,
		watchController,
	}
}
