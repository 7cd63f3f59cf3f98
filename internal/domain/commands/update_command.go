package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/cache"
	"github.com/rios0rios0/depwatch/internal/domain/entities"
	"github.com/rios0rios0/depwatch/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/depwatch/internal/infrastructure/repositories"
	"github.com/rios0rios0/depwatch/internal/planner"
)

// Update is the interface for the transactional update command.
type Update interface {
	Plan(updates []entities.UpdateCandidate, opts entities.UpdateOptions) entities.UpdateResult
	Execute(
		ctx context.Context, projectPath string, updates []entities.UpdateCandidate, opts entities.UpdateOptions,
	) entities.UpdateResult
}

// transitions lists the states reachable from each non-terminal state.
var transitions = map[entities.UpdateState][]entities.UpdateState{ //nolint:gochecknoglobals // read-only table
	entities.StateIdle:        {entities.StateBackupTaken, entities.StateApplying, entities.StateAborted},
	entities.StateBackupTaken: {entities.StateApplying, entities.StateAborted},
	entities.StateApplying:    {entities.StateCommitted, entities.StateRolledBack, entities.StateAborted},
}

func canTransition(from, to entities.UpdateState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// transaction tracks the state of one Execute call.
type transaction struct {
	result  entities.UpdateResult
	visited map[entities.UpdateState]bool
}

func newTransaction() *transaction {
	return &transaction{
		result: entities.UpdateResult{
			TransactionID:   uuid.NewString(),
			State:           entities.StateIdle,
			UpdatedPackages: []string{},
			Conflicts:       []entities.Conflict{},
			Errors:          []string{},
		},
		visited: map[entities.UpdateState]bool{entities.StateIdle: true},
	}
}

func (t *transaction) advance(next entities.UpdateState) error {
	if t.visited[next] || !canTransition(t.result.State, next) {
		return fmt.Errorf("illegal update transition %s -> %s", t.result.State, next)
	}
	logger.Debugf("[update] %s: %s -> %s", t.result.TransactionID, t.result.State, next)
	t.visited[next] = true
	t.result.State = next
	return nil
}

// finish moves to a terminal state and records why.
func (t *transaction) finish(state entities.UpdateState, err error, message string) entities.UpdateResult {
	if advanceErr := t.advance(state); advanceErr != nil {
		t.result.Errors = append(t.result.Errors, advanceErr.Error())
		t.result.State = entities.StateAborted
	}
	t.result.Err = err
	t.result.Message = message
	t.result.Success = t.result.State == entities.StateCommitted &&
		len(t.result.UpdatedPackages) > 0 &&
		len(t.result.Errors) == 0
	return t.result
}

// UpdateCommand applies update candidates to a project as one transaction:
// plan, optional backup, apply, optional test run, then commit or roll back.
type UpdateCommand struct {
	installers *infraRepos.InstallerRegistry
	manifests  repositories.ManifestRepository
	backups    repositories.BackupRepository
	workspace  repositories.WorkspaceRepository
	tests      repositories.TestRunnerRepository
	cache      *cache.AnalysisCache
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	installers *infraRepos.InstallerRegistry,
	manifests repositories.ManifestRepository,
	backups repositories.BackupRepository,
	workspace repositories.WorkspaceRepository,
	tests repositories.TestRunnerRepository,
	analysisCache *cache.AnalysisCache,
) *UpdateCommand {
	return &UpdateCommand{
		installers: installers,
		manifests:  manifests,
		backups:    backups,
		workspace:  workspace,
		tests:      tests,
		cache:      analysisCache,
	}
}

// Plan reports what Execute would apply without touching the project.
func (it *UpdateCommand) Plan(
	updates []entities.UpdateCandidate,
	opts entities.UpdateOptions,
) entities.UpdateResult {
	plan := planner.Prioritize(planner.FilterByStrategy(updates, opts.Strategy))
	conflicts := planner.DetectConflicts(plan)
	result := entities.UpdateResult{
		State:           entities.StateIdle,
		Plan:            plan,
		UpdatedPackages: []string{},
		Conflicts:       conflicts,
		Errors:          []string{},
		Message:         fmt.Sprintf("%d of %d updates admitted by the %s strategy", len(plan), len(updates), opts.Strategy),
	}
	if result.Conflicts == nil {
		result.Conflicts = []entities.Conflict{}
	}
	if len(conflicts) > 0 && !opts.AutoResolveConflicts {
		result.Err = entities.ErrConflictBlocked
	}
	return result
}

// Execute runs the transaction. Conflicts block the update before anything is
// written unless AutoResolveConflicts is set. A failed or cancelled test run
// restores the backup, when one was taken, on a context that ignores the
// caller's cancellation.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	projectPath string,
	updates []entities.UpdateCandidate,
	opts entities.UpdateOptions,
) entities.UpdateResult {
	tx := newTransaction()
	logger.Infof("[update] Transaction %s on %s (%s strategy)", tx.result.TransactionID, projectPath, opts.Strategy)

	installer, err := it.installers.Detect(projectPath)
	if err != nil {
		return tx.finish(entities.StateAborted, err, "no package manager available")
	}
	logger.Debugf("[update] Using package manager %s", installer.Name())

	planned := it.Plan(updates, opts)
	tx.result.Plan = planned.Plan
	tx.result.Conflicts = planned.Conflicts
	if len(tx.result.Plan) == 0 {
		return tx.finish(entities.StateAborted, nil, "no updates admitted by the "+string(opts.Strategy)+" strategy")
	}
	if errors.Is(planned.Err, entities.ErrConflictBlocked) {
		for _, conflict := range tx.result.Conflicts {
			logger.Warnf("[update] Conflict on %s: %s", conflict.Name, conflict.Issue)
		}
		return tx.finish(entities.StateAborted, entities.ErrConflictBlocked, fmt.Sprintf(
			"%d breaking updates need review; enable conflict auto-resolution to apply them",
			len(tx.result.Conflicts),
		))
	}

	files := it.manifests.Files(projectPath)
	if dirty, checkErr := it.workspace.HasUncommittedChanges(ctx, projectPath, files); checkErr != nil {
		logger.Debugf("[update] Workspace check skipped: %v", checkErr)
	} else if dirty {
		warning := "manifest or lock file has uncommitted changes"
		logger.Warnf("[update] %s", warning)
		tx.result.Warnings = append(tx.result.Warnings, warning)
	}

	var backup *entities.Backup
	if opts.CreateBackup {
		backup, err = it.backups.Create(ctx, projectPath, files)
		if err != nil {
			return tx.finish(entities.StateAborted, err, "failed to back up the project; nothing was changed")
		}
		tx.result.BackupPath = backup.Path
		if advanceErr := tx.advance(entities.StateBackupTaken); advanceErr != nil {
			return tx.finish(entities.StateAborted, advanceErr, "internal state error")
		}
	}

	if advanceErr := tx.advance(entities.StateApplying); advanceErr != nil {
		return tx.finish(entities.StateAborted, advanceErr, "internal state error")
	}
	it.apply(ctx, installer, projectPath, tx)

	if len(tx.result.UpdatedPackages) > 0 {
		it.cache.Invalidate(projectPath)
	} else {
		it.discard(backup)
		return tx.finish(entities.StateAborted, entities.ErrApplyFailure, "no update could be applied")
	}

	if opts.RunTests {
		if testErr := it.runTests(ctx, projectPath); testErr != nil {
			return it.rollback(ctx, tx, backup, testErr)
		}
	}

	message := fmt.Sprintf("applied %d of %d updates", len(tx.result.UpdatedPackages), len(tx.result.Plan))
	return tx.finish(entities.StateCommitted, nil, message)
}

// apply installs every planned candidate, recording failures without stopping.
func (it *UpdateCommand) apply(
	ctx context.Context,
	installer repositories.InstallerRepository,
	projectPath string,
	tx *transaction,
) {
	for _, candidate := range tx.result.Plan {
		logger.Infof("[update] %s %s -> %s", candidate.Name, candidate.CurrentVersion, candidate.TargetVersion)
		if err := installer.Install(ctx, projectPath, candidate.Name, candidate.TargetVersion); err != nil {
			wrapped := fmt.Errorf("%w: %s@%s: %w", entities.ErrApplyFailure, candidate.Name, candidate.TargetVersion, err)
			logger.Errorf("[update] %v", wrapped)
			tx.result.Errors = append(tx.result.Errors, wrapped.Error())
			continue
		}
		tx.result.UpdatedPackages = append(tx.result.UpdatedPackages, candidate.Name)
	}
}

// runTests returns nil only when the suite ran to completion and passed.
func (it *UpdateCommand) runTests(ctx context.Context, projectPath string) error {
	report, err := it.tests.Run(ctx, projectPath)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrTestRegression, err)
	}
	if !report.Success {
		logger.Debugf("[update] Test output:\n%s", report.Output)
		return entities.ErrTestRegression
	}
	return nil
}

func (it *UpdateCommand) rollback(
	ctx context.Context,
	tx *transaction,
	backup *entities.Backup,
	testErr error,
) entities.UpdateResult {
	tx.result.Errors = append(tx.result.Errors, testErr.Error())

	if backup == nil {
		logger.Errorf("[update] Tests failed and no backup was taken; the project keeps the applied updates")
		return tx.finish(entities.StateAborted, testErr, "tests failed after the update and no backup was available")
	}

	if err := it.backups.Restore(context.WithoutCancel(ctx), backup); err != nil {
		tx.result.Errors = append(tx.result.Errors, fmt.Sprintf("restore failed: %v", err))
		logger.Errorf("[update] Restore from %s failed: %v", backup.Path, err)
		return tx.finish(entities.StateAborted, testErr, "tests failed after the update and the backup could not be restored")
	}

	logger.Warnf("[update] Tests failed; restored %s from %s", backup.ProjectPath, backup.Path)
	return tx.finish(entities.StateRolledBack, testErr, "tests failed after the update; changes were rolled back")
}

func (it *UpdateCommand) discard(backup *entities.Backup) {
	if backup == nil {
		return
	}
	if err := it.backups.Discard(context.Background(), backup); err != nil {
		logger.Debugf("[update] Failed to discard backup %s: %v", backup.Path, err)
	}
}
