package repositories

import "context"

// SourceScannerRepository finds which packages a project's source code imports.
type SourceScannerRepository interface {
	FindImportedPackageNames(ctx context.Context, projectPath string) (map[string]struct{}, error)
}
