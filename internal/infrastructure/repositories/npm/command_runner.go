package npm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// CommandRunner runs a package manager command in a project directory and
// returns its standard output. Standard output is returned even when the
// command exits with a non-zero status, since npm prints JSON reports that way.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewExecRunner creates a new ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (it *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	logger.Debugf("[npm] Running %s %s in %s", name, strings.Join(args, " "), dir)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf(
			"%s %s failed: %w\nOutput:\n%s", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()),
		)
	}
	return stdout.Bytes(), nil
}
