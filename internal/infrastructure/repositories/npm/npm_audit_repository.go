package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

const auditFeedName = "npm-audit"

// AuditRepository is a vulnerability feed backed by `npm audit`. It only
// supports project audits; per-package lookups return nothing.
type AuditRepository struct {
	runner CommandRunner
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(runner CommandRunner) *AuditRepository {
	return &AuditRepository{runner: runner}
}

func (it *AuditRepository) Name() string { return auditFeedName }

func (it *AuditRepository) Lookup(_ context.Context, _ string) ([]entities.Vulnerability, error) {
	return nil, nil
}

type auditReport struct {
	Vulnerabilities map[string]auditPackage `json:"vulnerabilities"`
}

type auditPackage struct {
	Name         string            `json:"name"`
	Severity     string            `json:"severity"`
	Range        string            `json:"range"`
	Via          []json.RawMessage `json:"via"`
	FixAvailable json.RawMessage   `json:"fixAvailable"`
}

type auditAdvisory struct {
	Source     int    `json:"source"`
	Name       string `json:"name"`
	Dependency string `json:"dependency"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Severity   string `json:"severity"`
	Range      string `json:"range"`
}

type auditFix struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	IsSemVerMajor bool   `json:"isSemVerMajor"`
}

// AuditProject runs `npm audit --json` and converts the advisories of the v2
// report format. Transitive entries ("via" strings) carry no advisory of their
// own and are skipped; the package they point to is reported instead.
func (it *AuditRepository) AuditProject(ctx context.Context, projectPath string) ([]entities.Vulnerability, error) {
	output, runErr := it.runner.Run(ctx, projectPath, "npm", "audit", "--json")
	output = bytes.TrimSpace(output)
	if len(output) == 0 {
		if runErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrCollaboratorUnavailable, runErr)
		}
		return nil, nil
	}

	var report auditReport
	if err := json.Unmarshal(output, &report); err != nil {
		return nil, fmt.Errorf("failed to parse npm audit output: %w", err)
	}
	return parseAuditReport(report), nil
}

func parseAuditReport(report auditReport) []entities.Vulnerability {
	names := make([]string, 0, len(report.Vulnerabilities))
	for name := range report.Vulnerabilities {
		names = append(names, name)
	}
	sort.Strings(names)

	var vulnerabilities []entities.Vulnerability
	for _, name := range names {
		pkg := report.Vulnerabilities[name]
		fix, fixAvailable := parseFix(pkg.FixAvailable)

		for _, raw := range pkg.Via {
			var advisory auditAdvisory
			if err := json.Unmarshal(raw, &advisory); err != nil {
				continue
			}

			severity, err := entities.ParseSeverity(advisory.Severity)
			if err != nil {
				logger.Debugf("[npm] Skipping advisory %s of %s: %v", advisory.URL, name, err)
				continue
			}

			dependency := advisory.Name
			if dependency == "" {
				dependency = name
			}
			affected := advisory.Range
			if affected == "" {
				affected = pkg.Range
			}

			vulnerability := entities.Vulnerability{
				ID:             advisoryID(advisory),
				Severity:       severity,
				Title:          advisory.Title,
				AffectedRange:  affected,
				Dependency:     dependency,
				FixAvailable:   fixAvailable,
				Recommendation: "Run npm audit fix",
				Source:         auditFeedName,
			}
			if fix != nil && fix.Name == dependency && fix.Version != "" {
				vulnerability.PatchedRange = ">=" + fix.Version
				vulnerability.Recommendation = fmt.Sprintf("Upgrade %s to %s", dependency, fix.Version)
			}
			vulnerabilities = append(vulnerabilities, vulnerability)
		}
	}
	return vulnerabilities
}

// parseFix decodes fixAvailable, which is either a boolean or the fix itself.
func parseFix(raw json.RawMessage) (*auditFix, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return nil, flag
	}
	var fix auditFix
	if err := json.Unmarshal(raw, &fix); err == nil {
		return &fix, true
	}
	return nil, false
}

// advisoryID prefers the GHSA identifier at the end of the advisory URL.
func advisoryID(advisory auditAdvisory) string {
	if advisory.URL != "" {
		return path.Base(advisory.URL)
	}
	return "npm-" + strconv.Itoa(advisory.Source)
}
