package entities

import (
	"fmt"
	"strings"
	"time"
)

// UpdateClass is the semantic-version distance of an update.
type UpdateClass string

const (
	UpdatePatch UpdateClass = "patch"
	UpdateMinor UpdateClass = "minor"
	UpdateMajor UpdateClass = "major"
)

// Rank orders update classes: patch (1) < minor (2) < major (3).
func (c UpdateClass) Rank() int {
	switch c {
	case UpdateMajor:
		return 3
	case UpdateMinor:
		return 2
	default:
		return 1
	}
}

// RiskLevel is the risk of applying an update.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Rank orders risk levels: low (1) < medium (2) < high (3).
func (r RiskLevel) Rank() int {
	switch r {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

// RiskForClass derives the risk level of an update from its class.
func RiskForClass(class UpdateClass) RiskLevel {
	switch class {
	case UpdateMajor:
		return RiskHigh
	case UpdateMinor:
		return RiskMedium
	default:
		return RiskLow
	}
}

// UpdateImpact estimates what an update touches.
type UpdateImpact struct {
	SizeDelta          int64    `json:"sizeDelta"                    yaml:"sizeDelta"`
	AffectedDependents []string `json:"affectedDependents,omitempty" yaml:"affectedDependents,omitempty"`
}

// UpdateCandidate is a proposed version change for one dependency.
type UpdateCandidate struct {
	Name           string       `json:"name"           yaml:"name"`
	CurrentVersion string       `json:"currentVersion" yaml:"currentVersion"`
	TargetVersion  string       `json:"targetVersion"  yaml:"targetVersion"`
	Class          UpdateClass  `json:"class"          yaml:"class"`
	Breaking       bool         `json:"breaking"       yaml:"breaking"`
	SecurityFix    bool         `json:"securityFix"    yaml:"securityFix"`
	Risk           RiskLevel    `json:"risk"           yaml:"risk"`
	Impact         UpdateImpact `json:"impact"         yaml:"impact"`
}

// UpdateStrategy selects which update candidates are admitted.
type UpdateStrategy string

const (
	StrategyConservative UpdateStrategy = "conservative"
	StrategyModerate     UpdateStrategy = "moderate"
	StrategyAggressive   UpdateStrategy = "aggressive"
)

// ParseUpdateStrategy validates a strategy name.
func ParseUpdateStrategy(raw string) (UpdateStrategy, error) {
	switch UpdateStrategy(strings.ToLower(strings.TrimSpace(raw))) {
	case StrategyConservative:
		return StrategyConservative, nil
	case StrategyModerate:
		return StrategyModerate, nil
	case StrategyAggressive:
		return StrategyAggressive, nil
	default:
		return "", fmt.Errorf("unknown update strategy %q (expected conservative, moderate or aggressive)", raw)
	}
}

// UpdateOptions holds the options of one transactional update.
type UpdateOptions struct {
	Strategy             UpdateStrategy
	CreateBackup         bool
	RunTests             bool
	AutoResolveConflicts bool
}

// Conflict is an advisory raised for a candidate that needs attention before applying.
type Conflict struct {
	Name  string `json:"name"  yaml:"name"`
	Issue string `json:"issue" yaml:"issue"`
}

// UpdateState is a state of the transactional updater.
type UpdateState string

const (
	StateIdle        UpdateState = "idle"
	StateBackupTaken UpdateState = "backup_taken"
	StateApplying    UpdateState = "applying"
	StateCommitted   UpdateState = "committed"
	StateRolledBack  UpdateState = "rolled_back"
	StateAborted     UpdateState = "aborted"
)

// Terminal reports whether no further transition is possible from the state.
func (s UpdateState) Terminal() bool {
	return s == StateCommitted || s == StateRolledBack || s == StateAborted
}

// UpdateResult is the outcome of a transactional update.
type UpdateResult struct {
	TransactionID   string            `json:"transactionId"        yaml:"transactionId"`
	State           UpdateState       `json:"state"                yaml:"state"`
	Success         bool              `json:"success"              yaml:"success"`
	Message         string            `json:"message"              yaml:"message"`
	Plan            []UpdateCandidate `json:"plan"                 yaml:"plan"`
	UpdatedPackages []string          `json:"updatedPackages"      yaml:"updatedPackages"`
	Conflicts       []Conflict        `json:"conflicts"            yaml:"conflicts"`
	Errors          []string          `json:"errors"               yaml:"errors"`
	Warnings        []string          `json:"warnings,omitempty"   yaml:"warnings,omitempty"`
	BackupPath      string            `json:"backupPath,omitempty" yaml:"backupPath,omitempty"`
	Err             error             `json:"-"                    yaml:"-"`
}

// BackupFile is one file captured by a backup.
type BackupFile struct {
	Original string // absolute path of the project file
	Copy     string // absolute path of the stored copy
	Existed  bool   // false when the file did not exist at backup time
}

// Backup is a snapshot of the manifest and lock file of a project.
type Backup struct {
	ProjectPath string
	Path        string
	Files       []BackupFile
	CreatedAt   time.Time
}

// TestReport is the outcome of running a project's test suite.
type TestReport struct {
	Success bool
	Output  string
}
