package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	"github.com/rios0rios0/depwatch/internal/graph"
	"github.com/rios0rios0/depwatch/internal/license"
	"github.com/rios0rios0/depwatch/internal/recommendation"
	"github.com/rios0rios0/depwatch/internal/scoring"
	"github.com/rios0rios0/depwatch/internal/versions"
	"github.com/rios0rios0/depwatch/internal/vulnerability"
)

// Analyze is the interface for the analysis surface of the engine.
type Analyze interface {
	Analyze(ctx context.Context, projectPath string) (*entities.AnalysisResult, error)
	ScanVulnerabilities(
		ctx context.Context, projectPath string, dependencies []entities.Dependency,
	) []entities.Vulnerability
	CheckLicenseCompliance(
		dependencies []entities.Dependency, allowed, prohibited []string,
	) []entities.LicenseIssue
	ClearCache(projectPath string)
}

// AnalyzeCommand builds the analysis of a project: manifest, registry metadata,
// vulnerabilities, outdated, unused and duplicate packages, license issues,
// recommendations and scores. Results are served from the analysis cache.
type AnalyzeCommand struct {
	manifests  repositories.ManifestRepository
	trees      repositories.TreeRepository
	registry   repositories.RegistryRepository
	outdated   repositories.OutdatedRepository
	sources    repositories.SourceScannerRepository
	scanner    *vulnerability.Scanner
	comparator versions.Comparator
	cache      *cache.AnalysisCache
	settings   *entities.Settings
	now        func() time.Time
}

// NewAnalyzeCommand creates a new AnalyzeCommand.
func NewAnalyzeCommand(
	manifests repositories.ManifestRepository,
	trees repositories.TreeRepository,
	registry repositories.RegistryRepository,
	outdated repositories.OutdatedRepository,
	sources repositories.SourceScannerRepository,
	scanner *vulnerability.Scanner,
	comparator versions.Comparator,
	analysisCache *cache.AnalysisCache,
	settings *entities.Settings,
) *AnalyzeCommand {
	return &AnalyzeCommand{
		manifests:  manifests,
		trees:      trees,
		registry:   registry,
		outdated:   outdated,
		sources:    sources,
		scanner:    scanner,
		comparator: comparator,
		cache:      analysisCache,
		settings:   settings,
		now:        time.Now,
	}
}

// Analyze returns the cached analysis for projectPath or computes a new one.
// Only a missing or unreadable manifest fails the analysis; every other
// collaborator failure becomes a warning on the result.
func (it *AnalyzeCommand) Analyze(ctx context.Context, projectPath string) (*entities.AnalysisResult, error) {
	return it.cache.GetOrCompute(ctx, projectPath, it.compute)
}

// ScanVulnerabilities matches dependencies against every feed. A non-empty
// projectPath also merges the feeds' project audits.
func (it *AnalyzeCommand) ScanVulnerabilities(
	ctx context.Context,
	projectPath string,
	dependencies []entities.Dependency,
) []entities.Vulnerability {
	return it.scanner.Scan(ctx, projectPath, dependencies).Vulnerabilities
}

// CheckLicenseCompliance checks dependencies against the given lists, or
// against the configured policy when both lists are nil.
func (it *AnalyzeCommand) CheckLicenseCompliance(
	dependencies []entities.Dependency,
	allowed, prohibited []string,
) []entities.LicenseIssue {
	policy := entities.LicensePolicy{Allowed: allowed, Prohibited: prohibited}
	if allowed == nil && prohibited == nil {
		policy = it.settings.Licenses
	}
	return license.CheckCompliance(dependencies, policy)
}

// ClearCache drops the cached analysis of projectPath, or every cached
// analysis when projectPath is empty.
func (it *AnalyzeCommand) ClearCache(projectPath string) {
	if projectPath == "" {
		logger.Debug("[analyze] Clearing the analysis cache")
		it.cache.Clear()
		return
	}
	logger.Debugf("[analyze] Invalidating cached analysis of %s", projectPath)
	it.cache.Invalidate(projectPath)
}

func (it *AnalyzeCommand) compute(ctx context.Context, projectPath string) (*entities.AnalysisResult, error) {
	logger.Infof("[analyze] Analyzing %s", projectPath)

	manifest, err := it.manifests.Read(ctx, projectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest of %q: %w", projectPath, err)
	}

	var warnings []string
	warn := func(format string, args ...interface{}) {
		message := fmt.Sprintf(format, args...)
		logger.Warnf("[analyze] %s", message)
		warnings = append(warnings, message)
	}

	records := manifest.Records()

	listing, err := it.trees.List(ctx, projectPath)
	if err != nil {
		warn("dependency tree unavailable: %v", err)
		listing = nil
	}
	resolveInstalledVersions(records, listing)

	registry, fetchWarnings := it.fetchMetadata(ctx, records)
	warnings = append(warnings, fetchWarnings...)
	for i := range records {
		metadata, ok := registry[records[i].Name]
		if !ok {
			continue
		}
		records[i].License = metadata.License
		records[i].LatestVersion = metadata.LatestVersion
		records[i].Size = metadata.SizeOf(records[i].InstalledVersion)
	}

	scan := it.scanner.Scan(ctx, projectPath, records)
	warnings = append(warnings, scan.Warnings...)

	outdated, err := it.outdated.List(ctx, projectPath)
	if err != nil {
		warn("outdated package listing unavailable, using registry versions: %v", err)
		outdated = outdatedFromRegistry(it.comparator, records)
	}

	unused, err := it.findUnused(ctx, projectPath, records)
	if err != nil {
		warn("source scan unavailable: %v", err)
	}

	var duplicates []entities.DuplicateGroup
	if listing != nil {
		duplicates = graph.FindDuplicates(graph.Flatten(graph.BuildTree(projectName(manifest, projectPath), listing)))
	} else {
		pairs := make([]entities.NameVersion, 0, len(records))
		for _, record := range records {
			pairs = append(pairs, entities.NameVersion{Name: record.Name, Version: record.InstalledVersion})
		}
		duplicates = graph.FindDuplicates(pairs)
	}

	licenseIssues := license.CheckCompliance(records, it.settings.Licenses)

	result := &entities.AnalysisResult{
		ProjectPath:     projectPath,
		Counts:          entities.CountDependencies(records),
		Dependencies:    records,
		Vulnerabilities: scan.Vulnerabilities,
		Outdated:        outdated,
		Unused:          unused,
		Duplicates:      duplicates,
		LicenseIssues:   licenseIssues,
		Recommendations: recommendation.Generate(recommendation.Input{
			Vulnerabilities: scan.Vulnerabilities,
			Outdated:        outdated,
			Unused:          unused,
			Duplicates:      duplicates,
			LicenseIssues:   licenseIssues,
			Dependencies:    records,
		}),
		SecurityScore: scoring.SecurityScore(scan.Vulnerabilities, len(records)),
		HealthScore: scoring.HealthScore(
			len(scan.Vulnerabilities), len(outdated), len(unused), len(duplicates),
		),
		Warnings:   warnings,
		AnalyzedAt: it.now(),
		Registry:   registry,
	}

	logger.Infof(
		"[analyze] %s: %d dependencies, %d vulnerabilities, security %d, health %d",
		projectPath, result.Counts.Total, len(result.Vulnerabilities), result.SecurityScore, result.HealthScore,
	)
	return result, nil
}

// resolveInstalledVersions takes installed versions from the top level of the
// listing, falling back to the declared range with operators stripped.
func resolveInstalledVersions(records []entities.Dependency, listing *entities.PackageListing) {
	for i := range records {
		if listing != nil {
			if node, ok := listing.Dependencies[records[i].Name]; ok && node != nil && node.Version != "" {
				records[i].InstalledVersion = node.Version
				continue
			}
		}
		records[i].InstalledVersion = versions.Clean(records[i].VersionRange)
	}
}

// fetchMetadata queries the registry once per distinct name with at most
// settings.Workers requests in flight. Failures leave the name out of the map.
func (it *AnalyzeCommand) fetchMetadata(
	ctx context.Context,
	records []entities.Dependency,
) (map[string]entities.PackageMetadata, []string) {
	var names []string
	for _, record := range records {
		if !slices.Contains(names, record.Name) {
			names = append(names, record.Name)
		}
	}

	metadata := make([]*entities.PackageMetadata, len(names))
	failures := make([]error, len(names))

	var group errgroup.Group
	group.SetLimit(max(it.settings.Workers, 1))
	for i, name := range names {
		group.Go(func() error {
			metadata[i], failures[i] = it.registry.Fetch(ctx, name)
			return nil
		})
	}
	_ = group.Wait()

	registry := make(map[string]entities.PackageMetadata, len(names))
	var warnings []string
	for i, name := range names {
		if failures[i] != nil || metadata[i] == nil {
			logger.Warnf("[registry] No metadata for %q: %v", name, failures[i])
			warnings = append(warnings, fmt.Sprintf("registry metadata unavailable for %s", name))
			continue
		}
		registry[name] = *metadata[i]
	}
	return registry, warnings
}

// outdatedFromRegistry derives the outdated list from the latest registry
// versions when the package manager cannot list outdated packages.
func outdatedFromRegistry(comparator versions.Comparator, records []entities.Dependency) []entities.OutdatedPackage {
	var outdated []entities.OutdatedPackage
	seen := make(map[string]struct{})
	for _, record := range records {
		if _, dup := seen[record.Name]; dup || record.LatestVersion == "" || record.InstalledVersion == "" {
			continue
		}
		seen[record.Name] = struct{}{}
		if versions.IsNewerVersion(comparator, record.InstalledVersion, record.LatestVersion) {
			outdated = append(outdated, entities.OutdatedPackage{
				Name:    record.Name,
				Current: record.InstalledVersion,
				Latest:  record.LatestVersion,
			})
		}
	}
	return outdated
}

// findUnused lists production dependencies that no source file imports.
func (it *AnalyzeCommand) findUnused(
	ctx context.Context,
	projectPath string,
	records []entities.Dependency,
) ([]string, error) {
	imported, err := it.sources.FindImportedPackageNames(ctx, projectPath)
	if err != nil {
		return nil, err
	}

	var unused []string
	for _, record := range records {
		if record.Kind != entities.KindDirect {
			continue
		}
		if _, ok := imported[record.Name]; ok {
			continue
		}
		// type-only packages are consumed by the compiler, not imported
		if _, ok := imported[typesTarget(record.Name)]; ok {
			continue
		}
		unused = append(unused, record.Name)
	}
	return unused, nil
}

// typesTarget maps "@types/node" to "node" and "@types/babel__core" to "@babel/core".
func typesTarget(name string) string {
	rest, ok := strings.CutPrefix(name, "@types/")
	if !ok {
		return ""
	}
	if scope, pkg, scoped := strings.Cut(rest, "__"); scoped {
		return "@" + scope + "/" + pkg
	}
	return rest
}

func projectName(manifest *entities.Manifest, projectPath string) string {
	if manifest != nil && manifest.Name != "" {
		return manifest.Name
	}
	if abs, err := filepath.Abs(projectPath); err == nil {
		return filepath.Base(abs)
	}
	return filepath.Base(projectPath)
}
