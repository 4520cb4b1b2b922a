//go:build windows

package deployer

import (
	"context"
	"os/exec"

	"golang.org/x/sys/windows"
)

// createCommand creates the deployer exec.Cmd on Windows.
func (d *ExecDeployer) createCommand(ctx context.Context, directive string) *exec.Cmd {
	cmd := d.commandContext(ctx, d.executable, directive)
	// Create a new process group so that when the bounded wait expires, the
	// entire process tree is terminated, not just the deployer itself.
	cmd.SysProcAttr = &windows.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
	return cmd
}
