// Package bridge runs the full planning workflow as an isolated
// subprocess. The boundary is deliberately a message-passing one: a
// single free-text request on stdin, a single delimited text block on
// stdout, bounded by a hard wall-clock timeout. The workflow may make
// many sequential network calls of its own, so it never runs in-process.
package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tripstack/tripsearch/log"
)

// DefaultMarker is the literal delimiter the workflow prints before the
// final itinerary.
const DefaultMarker = "_________________________TRAVEL ITINERARY_________________________"

// Runner launches the planning workflow subprocess.
type Runner struct {
	Command string
	Args    []string
	Timeout time.Duration
	Marker  string
}

// NewRunner creates a Runner with the default marker.
func NewRunner(command string, args []string, timeout time.Duration) *Runner {
	return &Runner{
		Command: command,
		Args:    args,
		Timeout: timeout,
		Marker:  DefaultMarker,
	}
}

// OrchestrationError reports a workflow subprocess that exited non-zero.
type OrchestrationError struct {
	ExitCode int
	Stderr   string
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("planning workflow failed (code=%d): %s", e.ExitCode, e.Stderr)
}

// OrchestrationTimeout reports a workflow that exceeded the wall-clock
// budget. Partial output is never returned as success.
type OrchestrationTimeout struct {
	Timeout time.Duration
}

func (e *OrchestrationTimeout) Error() string {
	return fmt.Sprintf("planning workflow timed out after %s", e.Timeout)
}

// Run feeds the request to the workflow's stdin, waits for completion,
// and returns the extracted itinerary section.
func (r *Runner) Run(ctx context.Context, request string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, r.Command, r.Args...)
	cmd.Stdin = strings.NewReader(request + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Infof(ctx, "Running planning workflow: %s", r.Command)
	err := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		return "", &OrchestrationTimeout{Timeout: r.Timeout}
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &OrchestrationError{ExitCode: exitCode, Stderr: stderr.String()}
	}

	return ExtractItinerary(stdout.String(), r.marker()), nil
}

func (r *Runner) marker() string {
	if r.Marker != "" {
		return r.Marker
	}
	return DefaultMarker
}

// ExtractItinerary scans captured workflow output for the marker line.
// When found, it returns the marker followed by the trimmed remainder;
// when absent, the full output is returned verbatim so callers can still
// display whatever the workflow produced.
func ExtractItinerary(output, marker string) string {
	if idx := strings.Index(output, marker); idx >= 0 {
		rest := strings.TrimSpace(output[idx+len(marker):])
		return marker + "\n\n" + rest
	}
	return output
}
