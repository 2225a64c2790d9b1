//go:build unix

package dispatch

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Launch outcomes travel from the launching child back to the parent as a
// bare process exit status:
//
//   - 0: spawn succeeded.
//   - > 0: spawn failed, code == errno.
//   - < 0: spawn failed with no usable errno.
//
// The OS delivers exit statuses as a single unsigned byte, so the negative
// "unknown" marker is sent as its truncated form, 255. No POSIX platform
// assigns errno 255, so the two cannot collide in practice.
const exitCodeUnknown = 255

// ErrUnknown reports a spawn failure that carried no platform error number.
var ErrUnknown = errors.New("unknown spawn error")

// ErrInterrupted reports that the launching child was not observed to exit
// normally: either it was terminated by a signal, or the wait itself was
// interrupted. The two cases are deliberately not distinguished; both
// unwrap to EINTR.
var ErrInterrupted = fmt.Errorf("dispatch interrupted: %w", unix.EINTR)

// SpawnError is the decoded failure of a launch attempt.
type SpawnError struct {
	// Errno is the platform error number reported by the launching child,
	// or 0 when the failure carried none.
	Errno unix.Errno
}

func (e *SpawnError) Error() string {
	if e.Errno == 0 {
		return "spawn failed: " + ErrUnknown.Error()
	}
	return fmt.Sprintf("spawn failed: %v (errno %d)", error(e.Errno), int(e.Errno))
}

// Unwrap exposes the underlying errno, so callers can branch on specific
// conditions with errors.Is(err, unix.ENOENT) and friends.
func (e *SpawnError) Unwrap() error {
	if e.Errno == 0 {
		return ErrUnknown
	}
	return e.Errno
}

// encodeSpawnError maps the result of a spawn attempt onto the protocol.
func encodeSpawnError(err error) int {
	if err == nil {
		return 0
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	// exec's PATH lookup reports its own sentinels instead of the errno
	// the underlying stat produced; map them back so callers still see
	// the platform condition.
	if errors.Is(err, exec.ErrNotFound) {
		return int(unix.ENOENT)
	}
	if errors.Is(err, fs.ErrPermission) {
		return int(unix.EACCES)
	}
	return -1
}

// exitCode clamps a protocol value into the byte range the OS can carry.
func exitCode(code int) int {
	if code < 0 || code > exitCodeUnknown {
		return exitCodeUnknown
	}
	return code
}

// decodeExitStatus interprets a child exit status per the protocol.
func decodeExitStatus(ec int) error {
	switch {
	case ec == 0:
		return nil
	case ec > 0:
		return &SpawnError{Errno: unix.Errno(ec)}
	default:
		return &SpawnError{}
	}
}
