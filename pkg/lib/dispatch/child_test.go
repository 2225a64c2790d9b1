//go:build unix

package dispatch

import (
	"strings"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/khardix/urldispatch/pkg/lib"
)

func TestPayloadRoundTrip(t *testing.T) {
	command := lib.Command{
		Path: "sh",
		Args: []string{"-c", "echo hi"},
		Env:  []string{"FOO=bar"},
		Dir:  "/tmp",
	}

	raw, err := encodePayload("some-id", command)
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	payload, err := decodePayload(raw)
	if err != nil {
		t.Fatalf("decodePayload failed: %v", err)
	}

	if payload.ID != "some-id" {
		t.Fatalf("expected ID round trip, got %q", payload.ID)
	}
	if payload.Path != command.Path || payload.Dir != command.Dir {
		t.Fatalf("descriptor mangled: %+v", payload)
	}
	if len(payload.Args) != 2 || payload.Args[1] != "echo hi" {
		t.Fatalf("args mangled: %v", payload.Args)
	}
	if len(payload.Env) != 1 || payload.Env[0] != "FOO=bar" {
		t.Fatalf("env mangled: %v", payload.Env)
	}
}

func TestChildMainCorruptPayload(t *testing.T) {
	if got := childMain("{not json"); got != exitCodeUnknown {
		t.Fatalf("expected exit code %d for corrupt payload, got %d", exitCodeUnknown, got)
	}
}

func TestChildMainSpawnSuccess(t *testing.T) {
	raw, err := encodePayload("test", lib.Command{Path: "true"})
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	if got := childMain(raw); got != 0 {
		t.Fatalf("expected exit code 0, got %d", got)
	}
}

func TestChildMainSpawnFailure(t *testing.T) {
	raw, err := encodePayload("test", lib.Command{Path: "asdfghjkl"})
	if err != nil {
		t.Fatalf("encodePayload failed: %v", err)
	}
	if got := childMain(raw); got != int(unix.ENOENT) {
		t.Fatalf("expected exit code %d (ENOENT), got %d", int(unix.ENOENT), got)
	}
}

func TestEnvironWithoutMarker(t *testing.T) {
	t.Setenv(childPayloadEnv, "{}")

	for _, entry := range environWithoutMarker() {
		if strings.HasPrefix(entry, childPayloadEnv+"=") {
			t.Fatalf("marker leaked into environment: %q", entry)
		}
	}
}
