package commands

// CanTransition exports canTransition for testing.
var CanTransition = canTransition //nolint:gochecknoglobals // test export

// TypesTarget exports typesTarget for testing.
var TypesTarget = typesTarget //nolint:gochecknoglobals // test export

// OutdatedFromRegistry exports outdatedFromRegistry for testing.
var OutdatedFromRegistry = outdatedFromRegistry //nolint:gochecknoglobals // test export
