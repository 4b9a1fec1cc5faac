//go:build unix

package taskjuggler

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the engine in its own process group so that a
// timeout kills helpers it spawned too.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
