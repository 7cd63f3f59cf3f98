package sourcescan

var PackageName = packageName //nolint:gochecknoglobals // test export
