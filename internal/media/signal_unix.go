//go:build unix

package media

import (
	"os"
	"syscall"
)

func suspend(proc *os.Process) error { return proc.Signal(syscall.SIGSTOP) }

func resume(proc *os.Process) error { return proc.Signal(syscall.SIGCONT) }
