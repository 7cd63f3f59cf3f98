package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultRegistryURL     = "https://registry.npmjs.org"
	defaultRegistryTimeout = 15 * time.Second
	defaultRegistryRetries = 3
	defaultOSVURL          = "https://api.osv.dev/v1/query"
	defaultWorkers         = 4
)

// Settings is the top-level configuration for depwatch.
type Settings struct {
	Cache           CacheSettings         `yaml:"cache"`
	Registry        RegistrySettings      `yaml:"registry"`
	Vulnerabilities VulnerabilitySettings `yaml:"vulnerabilities"`
	Licenses        LicensePolicy         `yaml:"licenses"`
	Update          UpdateSettings        `yaml:"update"`
	Scan            ScanSettings          `yaml:"scan"`
	Workers         int                   `yaml:"workers"`
}

// CacheSettings configures the analysis cache.
type CacheSettings struct {
	TTL time.Duration `yaml:"ttl"`
}

// RegistrySettings configures the package registry client.
type RegistrySettings struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"` // Inline, ${ENV_VAR}, or file path
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
}

// VulnerabilitySettings selects the vulnerability feeds.
type VulnerabilitySettings struct {
	OSV        OSVSettings `yaml:"osv"`
	Advisories string      `yaml:"advisories"` // path to a YAML advisory database
	Audit      bool        `yaml:"audit"`      // run the package manager's audit
}

// OSVSettings configures the OSV.dev feed.
type OSVSettings struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// LicensePolicy lists allowed and prohibited SPDX identifiers. An empty allow
// list admits every license that is not prohibited.
type LicensePolicy struct {
	Allowed    []string `yaml:"allowed"`
	Prohibited []string `yaml:"prohibited"`
}

// UpdateSettings holds the default options of the update command.
type UpdateSettings struct {
	Strategy             string `yaml:"strategy"`
	CreateBackup         bool   `yaml:"create_backup"`
	RunTests             bool   `yaml:"run_tests"`
	AutoResolveConflicts bool   `yaml:"auto_resolve_conflicts"`
	BackupDir            string `yaml:"backup_dir"`
}

// ScanSettings configures the source scanner.
type ScanSettings struct {
	Exclude []string `yaml:"exclude"`
}

// UpdateOptions converts the update section into updater options.
func (s *Settings) UpdateOptions() (UpdateOptions, error) {
	strategy, err := ParseUpdateStrategy(s.Update.Strategy)
	if err != nil {
		return UpdateOptions{}, err
	}
	return UpdateOptions{
		Strategy:             strategy,
		CreateBackup:         s.Update.CreateBackup,
		RunTests:             s.Update.RunTests,
		AutoResolveConflicts: s.Update.AutoResolveConflicts,
	}, nil
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the configuration used when no file is present.
func DefaultSettings() *Settings {
	return &Settings{
		Cache: CacheSettings{TTL: defaultCacheTTL},
		Registry: RegistrySettings{
			URL:     defaultRegistryURL,
			Timeout: defaultRegistryTimeout,
			Retries: defaultRegistryRetries,
		},
		Vulnerabilities: VulnerabilitySettings{
			OSV:   OSVSettings{Enabled: true, URL: defaultOSVURL},
			Audit: true,
		},
		Update: UpdateSettings{
			Strategy:     string(StrategyModerate),
			CreateBackup: true,
			RunTests:     true,
		},
		Scan: ScanSettings{
			Exclude: []string{"node_modules", ".git", "dist", "build", "coverage"},
		},
		Workers: defaultWorkers,
	}
}

// NewSettings reads and parses a configuration file on top of the defaults,
// expanding environment variables and resolving token file paths.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	settings := DefaultSettings()
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Registry.Token = resolveToken(settings.Registry.Token)
	if settings.Vulnerabilities.Advisories != "" && !filepath.IsAbs(settings.Vulnerabilities.Advisories) {
		settings.Vulnerabilities.Advisories = filepath.Join(filepath.Dir(path), settings.Vulnerabilities.Advisories)
	}

	if validateErr := validate(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

// LoadSettings loads the file at path, or the first file found in the default
// locations when path is empty. Without any file the defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	if path != "" {
		return NewSettings(path)
	}

	found, err := FindConfigFile()
	if err != nil {
		logger.Debugf("No config file found, using defaults: %v", err)
		return DefaultSettings(), nil
	}

	logger.Debugf("Using config file: %s", found)
	return NewSettings(found)
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depwatch.yaml",
		".depwatch.yml",
		"depwatch.yaml",
		"depwatch.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks the configuration for values the engine cannot work with.
func validate(settings *Settings) error {
	if settings.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if settings.Workers < 0 {
		return fmt.Errorf("workers must not be negative (got %d)", settings.Workers)
	}
	if settings.Registry.Retries < 0 {
		return fmt.Errorf("registry.retries must not be negative (got %d)", settings.Registry.Retries)
	}
	if settings.Registry.URL == "" {
		return errors.New("registry.url is required")
	}
	if _, err := ParseUpdateStrategy(settings.Update.Strategy); err != nil {
		return fmt.Errorf("update.strategy: %w", err)
	}
	for _, license := range settings.Licenses.Prohibited {
		for _, allowed := range settings.Licenses.Allowed {
			if strings.EqualFold(license, allowed) {
				return fmt.Errorf("license %q is both allowed and prohibited", license)
			}
		}
	}
	return nil
}
