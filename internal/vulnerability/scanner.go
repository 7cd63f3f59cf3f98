package vulnerability

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
)

// Scanner collects the vulnerability records that apply to a dependency set.
type Scanner struct {
	matcher *Matcher
	feeds   []repositories.VulnerabilityRepository
}

// NewScanner creates a Scanner over the given feeds, queried in order.
func NewScanner(matcher *Matcher, feeds []repositories.VulnerabilityRepository) *Scanner {
	return &Scanner{matcher: matcher, feeds: feeds}
}

// ScanResult holds the matched records and the warnings of degraded feeds.
type ScanResult struct {
	Vulnerabilities []entities.Vulnerability
	Warnings        []string
}

// Scan looks up every dependency in every feed and keeps the records whose
// affected range matches the installed version, then merges project audits.
// Feed failures, including cancellation, are logged and skipped.
func (it *Scanner) Scan(
	ctx context.Context,
	projectPath string,
	dependencies []entities.Dependency,
) ScanResult {
	var result ScanResult
	seen := make(map[string]struct{})

	add := func(vuln entities.Vulnerability) {
		key := vuln.ID + "\x00" + vuln.Dependency
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		result.Vulnerabilities = append(result.Vulnerabilities, vuln)
	}

	looked := make(map[string]struct{})
	for _, dep := range dependencies {
		installed := dep.InstalledVersion
		if installed == "" {
			installed = dep.VersionRange
		}
		lookupKey := dep.Name + "@" + installed
		if _, done := looked[lookupKey]; done {
			continue
		}
		looked[lookupKey] = struct{}{}

		for _, feed := range it.feeds {
			records, err := feed.Lookup(ctx, dep.Name)
			if err != nil {
				logger.Warnf("[%s] Lookup failed for %q: %v", feed.Name(), dep.Name, err)
				result.Warnings = append(result.Warnings, feed.Name()+": lookup failed for "+dep.Name)
				continue
			}
			for _, record := range records {
				if record.Dependency == "" {
					record.Dependency = dep.Name
				}
				if record.Source == "" {
					record.Source = feed.Name()
				}
				if it.matcher.Matches(installed, record.AffectedRange) {
					add(record)
				}
			}
		}
	}

	if projectPath == "" {
		return result
	}

	for _, feed := range it.feeds {
		records, err := feed.AuditProject(ctx, projectPath)
		if err != nil {
			logger.Warnf("[%s] Project audit failed: %v", feed.Name(), err)
			result.Warnings = append(result.Warnings, feed.Name()+": project audit failed")
			continue
		}
		for _, record := range records {
			if record.Source == "" {
				record.Source = feed.Name()
			}
			add(record)
		}
	}

	return result
}
