package osv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/httpclient"
	"github.com/rios0rios0/depwatch/internal/versions"
)

const (
	feedName  = "osv"
	ecosystem = "npm"

	// maxPages bounds the next_page_token loop of one query.
	maxPages = 10
)

// Repository is a vulnerability feed backed by the OSV.dev query API.
type Repository struct {
	client     *retryablehttp.Client
	url        string
	comparator versions.Comparator
}

// NewRepository creates an OSV feed from the vulnerability and registry settings.
func NewRepository(settings *entities.Settings, comparator versions.Comparator) *Repository {
	return &Repository{
		client:     httpclient.New(feedName, settings.Registry.Timeout, settings.Registry.Retries),
		url:        settings.Vulnerabilities.OSV.URL,
		comparator: comparator,
	}
}

func (it *Repository) Name() string { return feedName }

// AuditProject is not supported by OSV; records come from Lookup only.
func (it *Repository) AuditProject(_ context.Context, _ string) ([]entities.Vulnerability, error) {
	return nil, nil
}

type queryRequest struct {
	Package   queryPackage `json:"package"`
	PageToken string       `json:"page_token,omitempty"`
}

type queryPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

type queryResponse struct {
	Vulns         []advisory `json:"vulns"`
	NextPageToken string     `json:"next_page_token"`
}

type advisory struct {
	ID               string     `json:"id"`
	Summary          string     `json:"summary"`
	Details          string     `json:"details"`
	Affected         []affected `json:"affected"`
	DatabaseSpecific struct {
		Severity string `json:"severity"`
	} `json:"database_specific"`
}

type affected struct {
	Package queryPackage `json:"package"`
	Ranges  []struct {
		Type   string  `json:"type"`
		Events []event `json:"events"`
	} `json:"ranges"`
}

type event struct {
	Introduced   string `json:"introduced,omitempty"`
	Fixed        string `json:"fixed,omitempty"`
	LastAffected string `json:"last_affected,omitempty"`
}

// Lookup returns every OSV advisory of the named npm package, following pagination.
func (it *Repository) Lookup(ctx context.Context, name string) ([]entities.Vulnerability, error) {
	var vulnerabilities []entities.Vulnerability
	request := queryRequest{Package: queryPackage{Name: name, Ecosystem: ecosystem}}

	for range maxPages {
		response, err := it.query(ctx, request)
		if err != nil {
			return nil, err
		}
		for _, adv := range response.Vulns {
			if vulnerability, ok := it.toVulnerability(name, adv); ok {
				vulnerabilities = append(vulnerabilities, vulnerability)
			}
		}
		if response.NextPageToken == "" {
			break
		}
		request.PageToken = response.NextPageToken
	}

	logger.Debugf("[osv] %d advisories for %s", len(vulnerabilities), name)
	return vulnerabilities, nil
}

func (it *Repository) query(ctx context.Context, request queryRequest) (*queryResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error encoding request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, it.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create OSV request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: OSV API error: %s", entities.ErrCollaboratorUnavailable, resp.Status)
	}

	var response queryResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&response); decodeErr != nil {
		return nil, fmt.Errorf("error decoding OSV response: %w", decodeErr)
	}
	return &response, nil
}

// toVulnerability converts the ranges affecting name into an affected range
// of "||" clauses. The patched range starts at the highest fixed version.
func (it *Repository) toVulnerability(name string, adv advisory) (entities.Vulnerability, bool) {
	var clauses []string
	highestFix := ""

	for _, entry := range adv.Affected {
		if entry.Package.Name != name || !strings.EqualFold(entry.Package.Ecosystem, ecosystem) {
			continue
		}
		for _, r := range entry.Ranges {
			if r.Type != "SEMVER" && r.Type != "ECOSYSTEM" {
				continue
			}
			rangeClauses, fixes := eventClauses(r.Events)
			clauses = append(clauses, rangeClauses...)
			for _, fix := range fixes {
				if highestFix == "" || it.comparator.Compare(fix, highestFix) > 0 {
					highestFix = fix
				}
			}
		}
	}
	if len(clauses) == 0 {
		return entities.Vulnerability{}, false
	}

	severity, err := entities.ParseSeverity(adv.DatabaseSpecific.Severity)
	if err != nil {
		severity = entities.SeverityModerate
	}
	title := adv.Summary
	if title == "" {
		title = adv.ID
	}

	vulnerability := entities.Vulnerability{
		ID:             adv.ID,
		Severity:       severity,
		Title:          title,
		Description:    adv.Details,
		AffectedRange:  strings.Join(clauses, " || "),
		Dependency:     name,
		Recommendation: fmt.Sprintf("No fix available; consider replacing %s", name),
		Source:         feedName,
	}
	if highestFix != "" {
		vulnerability.PatchedRange = ">=" + highestFix
		vulnerability.FixAvailable = true
		vulnerability.Recommendation = fmt.Sprintf("Upgrade %s to %s or later", name, highestFix)
	}
	return vulnerability, true
}

// eventClauses pairs each "introduced" event with the "fixed" or
// "last_affected" event that follows it.
func eventClauses(events []event) ([]string, []string) {
	var clauses, fixes []string
	introduced := ""
	open := false

	for _, e := range events {
		switch {
		case e.Introduced != "":
			introduced = e.Introduced
			open = true
		case e.Fixed != "" && open:
			clauses = append(clauses, lowerBound(introduced)+"<"+e.Fixed)
			fixes = append(fixes, e.Fixed)
			open = false
		case e.LastAffected != "" && open:
			clauses = append(clauses, lowerBound(introduced)+"<="+e.LastAffected)
			open = false
		}
	}
	if open {
		if introduced == "0" {
			clauses = append(clauses, ">=0.0.0")
		} else {
			clauses = append(clauses, ">="+introduced)
		}
	}
	return clauses, fixes
}

func lowerBound(introduced string) string {
	if introduced == "" || introduced == "0" {
		return ""
	}
	return ">=" + introduced + " "
}
