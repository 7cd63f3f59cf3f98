package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/infrastructure/repositories/httpclient"
)

// ErrPackageNotFound is returned when the registry has no document for a package.
var ErrPackageNotFound = errors.New("package not found in registry")

// NpmRegistryRepository fetches package documents from an npm-compatible registry.
type NpmRegistryRepository struct {
	client  *retryablehttp.Client
	baseURL string
	token   string
}

// NewNpmRegistryRepository creates a registry client from the registry settings.
func NewNpmRegistryRepository(settings *entities.Settings) *NpmRegistryRepository {
	return &NpmRegistryRepository{
		client:  httpclient.New("registry", settings.Registry.Timeout, settings.Registry.Retries),
		baseURL: strings.TrimRight(settings.Registry.URL, "/"),
		token:   settings.Registry.Token,
	}
}

type packageDocument struct {
	Name     string                     `json:"name"`
	DistTags map[string]string          `json:"dist-tags"`
	License  json.RawMessage            `json:"license"`
	Versions map[string]versionDocument `json:"versions"`
}

type versionDocument struct {
	License json.RawMessage `json:"license"`
	Dist    struct {
		UnpackedSize int64 `json:"unpackedSize"`
	} `json:"dist"`
}

// Fetch returns the license, latest version and unpacked sizes of a package.
func (it *NpmRegistryRepository) Fetch(ctx context.Context, name string) (*entities.PackageMetadata, error) {
	endpoint := it.baseURL + "/" + url.PathEscape(name)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if it.token != "" {
		req.Header.Set("Authorization", "Bearer "+it.token)
	}

	resp, err := it.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: registry returned %s for %s", entities.ErrCollaboratorUnavailable, resp.Status, name)
	}

	var document packageDocument
	if decodeErr := json.NewDecoder(resp.Body).Decode(&document); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode registry document of %s: %w", name, decodeErr)
	}

	metadata := toMetadata(name, document)
	logger.Debugf("[registry] %s: latest %s, license %q", name, metadata.LatestVersion, metadata.License)
	return metadata, nil
}

func toMetadata(name string, document packageDocument) *entities.PackageMetadata {
	metadata := &entities.PackageMetadata{
		Name:          name,
		LatestVersion: document.DistTags["latest"],
		License:       parseLicense(document.License),
		VersionSizes:  make(map[string]int64),
	}

	for version, details := range document.Versions {
		if details.Dist.UnpackedSize > 0 {
			metadata.VersionSizes[version] = details.Dist.UnpackedSize
		}
	}

	if latest, ok := document.Versions[metadata.LatestVersion]; ok {
		metadata.Size = latest.Dist.UnpackedSize
		if metadata.License == "" {
			metadata.License = parseLicense(latest.License)
		}
	}
	return metadata
}

// parseLicense accepts both the SPDX string form and the legacy {"type": ...} object.
func parseLicense(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var expression string
	if err := json.Unmarshal(raw, &expression); err == nil {
		return strings.TrimSpace(expression)
	}
	var legacy struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &legacy); err == nil {
		return strings.TrimSpace(legacy.Type)
	}
	return ""
}
