// Package deployer invokes the host's deployment executable around a cleanup
// pass. The executable is an opaque external collaborator; invocation failures
// are never fatal to the pass itself.
package deployer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rimetools/udbclean/pkg/hints"
	"github.com/rimetools/udbclean/pkg/plog"
)

// ErrDisabled signals that deployer invocation is switched off. It is a hint,
// not a failure.
var ErrDisabled = hints.New("deployer invocation is disabled")

// ErrNotFound signals that the deployer executable is absent on this
// installation. Also a hint: hosts without a deployer are a normal case.
var ErrNotFound = hints.New("deployer executable not found")

// Deployer runs one deployment directive.
type Deployer interface {
	Run(ctx context.Context, directive string) error
}

// Null is the no-op Deployer used when invocation is disabled or the platform
// has no deployer.
type Null struct{}

// Run implements Deployer. It reports the disabled hint and touches nothing.
func (Null) Run(ctx context.Context, directive string) error {
	return ErrDisabled
}

// ExecDeployer invokes a real executable, one string directive per call, with
// a bounded wait. The bound applies only to the external call; the cleanup
// pass around it has no timeout.
type ExecDeployer struct {
	executable string
	timeout    time.Duration

	// commandContext allows mocking os/exec for testing.
	commandContext func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

// New creates an ExecDeployer. A relative executable is resolved against the
// shared data directory, where hosts install their deployer.
func New(sharedDataDir, executable string, timeout time.Duration) *ExecDeployer {
	path := executable
	if !filepath.IsAbs(path) {
		path = filepath.Join(sharedDataDir, path)
	}
	return &ExecDeployer{
		executable:     path,
		timeout:        timeout,
		commandContext: exec.CommandContext,
	}
}

// Run invokes the deployer with a single directive (e.g. "/sync"). When the
// bounded wait expires the process group is terminated.
func (d *ExecDeployer) Run(ctx context.Context, directive string) error {
	if _, err := os.Stat(d.executable); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, d.executable)
		}
		return fmt.Errorf("could not stat deployer executable %s: %w", d.executable, err)
	}

	runCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	cmd := d.createCommand(runCtx, directive)

	// Pipe output to our streams for visibility
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	plog.Info("Invoking deployer", "executable", d.executable, "directive", directive)
	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("deployer '%s %s' timed out after %s: %w", d.executable, directive, d.timeout, err)
		}
		return fmt.Errorf("deployer '%s %s' failed: %w", d.executable, directive, err)
	}
	return nil
}
