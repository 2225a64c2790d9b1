//go:build unix

// Package dispatch launches external commands detached from the calling
// process and reports whether the launch itself succeeded.
//
// Dispatch does not wait for the dispatched program to finish; it waits
// only for the spawn attempt to be decided. The attempt happens in a
// short-lived duplicate of the current process (a re-execution of the
// current binary), which communicates the outcome back through its exit
// status: 0 for success, the errno for a platform failure, 255 for a
// failure carrying no errno.
//
// Host programs must call Init at the top of main so that the duplicate
// can take the child role instead of running the host's own logic.
//
// The package is POSIX-only; it relies on fork/exec/wait semantics.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/khardix/urldispatch/pkg/lib"
)

var logger = log.New(io.Discard, "dispatch: ", log.LstdFlags)

// SetLogOutput routes the package's diagnostic log to w.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Dispatch starts command as a detached process. It returns nil once the
// program has been launched, without waiting for it to finish. A non-nil
// error means the launch did not happen: a *SpawnError for a failed spawn
// attempt, ErrInterrupted when the launching child was signaled away, or
// the verbatim platform error when process creation or the wait itself
// failed.
//
// There is no timeout or cancellation; the call blocks until the launching
// child has reported its outcome, which happens immediately after the
// spawn attempt regardless of how long the dispatched program runs.
func Dispatch(command lib.Command) error {
	if command.Path == "" {
		return errors.New("command is required")
	}

	id := lib.NewID()
	logger.Printf("dispatching %s (%s)", command, id)

	pid, err := startChild(id, command)
	if err != nil {
		return fmt.Errorf("start dispatch child: %w", err)
	}

	if err := awaitChild(pid); err != nil {
		logger.Printf("dispatch %s failed: %v", id, err)
		return err
	}
	logger.Printf("dispatch %s succeeded", id)
	return nil
}

// startChild re-executes the current binary in the child role, carrying
// the command descriptor in the payload environment variable.
func startChild(id string, command lib.Command) (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}
	payload, err := encodePayload(id, command)
	if err != nil {
		return 0, err
	}

	child := exec.Command(exe)
	child.Env = append(os.Environ(), childPayloadEnv+"="+payload)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Start(); err != nil {
		return 0, err
	}
	return child.Process.Pid, nil
}

// awaitChild blocks until the launching child reports its outcome. Exit
// and signal deliveries are terminal; every other wait status (stopped,
// continued) is ignored and the wait resumed.
func awaitChild(pid int) error {
	var ws unix.WaitStatus
	for {
		if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
			if errors.Is(err, unix.EINTR) {
				return ErrInterrupted
			}
			return fmt.Errorf("wait for dispatch child: %w", err)
		}
		switch {
		case ws.Exited():
			return decodeExitStatus(ws.ExitStatus())
		case ws.Signaled():
			return ErrInterrupted
		default:
			// Stopped/continued notifications are not terminal.
			continue
		}
	}
}
