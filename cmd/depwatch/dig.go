package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depwatch/internal"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/controllers"
)

func injectAppContext(
	configPath entities.ConfigPath,
) (*internal.AppInternal, *controllers.AnalyzeController, error) {
	container := dig.New()

	if err := container.Provide(func() entities.ConfigPath { return configPath }); err != nil {
		panic(err)
	}

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal and the controller of the root command. Settings
	// are loaded here, so a bad config file surfaces as an error.
	var (
		appInternal       *internal.AppInternal
		analyzeController *controllers.AnalyzeController
	)
	if err := container.Invoke(func(ai *internal.AppInternal, ac *controllers.AnalyzeController) {
		appInternal = ai
		analyzeController = ac
	}); err != nil {
		return nil, nil, dig.RootCause(err)
	}

	return appInternal, analyzeController, nil
}
