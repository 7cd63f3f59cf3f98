package advisories

import (
	"context"
	"fmt"
	"os"
	"sync"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

const feedName = "advisories"

// database is the on-disk layout of an advisory file:
//
//	advisories:
//	  - id: GHSA-p6mc-m468-83gw
//	    dependency: lodash
//	    severity: critical
//	    affected: "<4.17.21"
//	    patched: ">=4.17.21"
type database struct {
	Advisories []entities.Vulnerability `yaml:"advisories"`
}

// Repository is an offline vulnerability feed read from a YAML file. The file
// is loaded once, on first lookup.
type Repository struct {
	path string

	once    sync.Once
	records map[string][]entities.Vulnerability
	loadErr error
}

// NewRepository creates a feed over the advisory file at path.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

func (it *Repository) Name() string { return feedName }

func (it *Repository) Lookup(_ context.Context, name string) ([]entities.Vulnerability, error) {
	it.once.Do(it.load)
	if it.loadErr != nil {
		return nil, it.loadErr
	}
	return append([]entities.Vulnerability(nil), it.records[name]...), nil
}

func (it *Repository) AuditProject(_ context.Context, _ string) ([]entities.Vulnerability, error) {
	return nil, nil
}

func (it *Repository) load() {
	data, err := os.ReadFile(it.path)
	if err != nil {
		it.loadErr = fmt.Errorf("%w: failed to read advisory database %q: %w",
			entities.ErrCollaboratorUnavailable, it.path, err)
		return
	}

	var db database
	if unmarshalErr := yaml.Unmarshal(data, &db); unmarshalErr != nil {
		it.loadErr = fmt.Errorf("failed to parse advisory database %q: %w", it.path, unmarshalErr)
		return
	}

	it.records = make(map[string][]entities.Vulnerability)
	for _, record := range db.Advisories {
		if record.ID == "" || record.Dependency == "" || record.AffectedRange == "" {
			logger.Warnf("[advisories] Skipping incomplete advisory %q in %s", record.ID, it.path)
			continue
		}
		severity, severityErr := entities.ParseSeverity(string(record.Severity))
		if severityErr != nil {
			logger.Warnf("[advisories] Skipping advisory %s: %v", record.ID, severityErr)
			continue
		}
		record.Severity = severity
		record.Source = feedName
		if record.PatchedRange != "" && !record.FixAvailable {
			record.FixAvailable = true
		}
		it.records[record.Dependency] = append(it.records[record.Dependency], record)
	}
	logger.Debugf("[advisories] Loaded %d advisories from %s", len(db.Advisories), it.path)
}
