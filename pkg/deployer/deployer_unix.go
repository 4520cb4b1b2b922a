//go:build !windows

package deployer

import (
	"context"
	"os/exec"

	"golang.org/x/sys/unix"
)

// createCommand creates the deployer exec.Cmd on Unix-like systems.
func (d *ExecDeployer) createCommand(ctx context.Context, directive string) *exec.Cmd {
	cmd := d.commandContext(ctx, d.executable, directive)
	// Create a new process group so that when the bounded wait expires, the
	// whole tree the deployer spawned can be signaled, not just the parent.
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true}
	return cmd
}
