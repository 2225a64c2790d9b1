//go:build unix

package dispatch

import (
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/khardix/urldispatch/pkg/lib"
)

// childPayloadEnv carries the serialized command descriptor into the
// launching child. Its presence is what distinguishes the child role.
const childPayloadEnv = "_URLDISPATCH_CHILD"

// childPayload is the wire form of a dispatch request between the two halves.
type childPayload struct {
	ID   string   `json:"id"`
	Path string   `json:"path"`
	Args []string `json:"args,omitempty"`
	Env  []string `json:"env,omitempty"`
	Dir  string   `json:"dir,omitempty"`
}

func encodePayload(id string, command lib.Command) (string, error) {
	data, err := json.Marshal(childPayload{
		ID:   id,
		Path: command.Path,
		Args: command.Args,
		Env:  command.Env,
		Dir:  command.Dir,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePayload(raw string) (childPayload, error) {
	var payload childPayload
	err := json.Unmarshal([]byte(raw), &payload)
	return payload, err
}

// Init hands control over to the child role when the current process was
// started by Dispatch. Host programs must call it at the top of main,
// before any other work; tests call it from TestMain. In the child role it
// never returns: the process terminates immediately with the encoded
// outcome of the spawn attempt.
func Init() {
	raw, ok := os.LookupEnv(childPayloadEnv)
	if !ok {
		return
	}
	os.Exit(childMain(raw))
}

// childMain attempts the spawn and reports the outcome as an exit code.
func childMain(raw string) int {
	payload, err := decodePayload(raw)
	if err != nil {
		// A corrupt payload carries no errno; report the unknown kind.
		return exitCodeUnknown
	}

	logger.Printf("child %s: spawning %s", payload.ID, payload.Path)
	return exitCode(encodeSpawnError(spawnDetached(payload)))
}

// spawnDetached starts the requested program without waiting for it.
// Setsid puts the program in its own session, so its lifetime is
// independent of every process involved in the dispatch.
func spawnDetached(payload childPayload) error {
	cmd := exec.Command(payload.Path, payload.Args...)
	cmd.Dir = payload.Dir
	cmd.Env = append(environWithoutMarker(), payload.Env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	return cmd.Start()
}

// environWithoutMarker returns the inherited environment minus the payload
// marker. The marker must not leak into the dispatched program, or a
// program that itself uses this package would come up in the child role.
func environWithoutMarker() []string {
	environ := os.Environ()
	kept := environ[:0]
	for _, entry := range environ {
		if strings.HasPrefix(entry, childPayloadEnv+"=") {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
