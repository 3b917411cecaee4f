// Package tool runs the external programs the icon build delegates to.
//
// Each [Tool] names one executable (plus optional fallbacks) and an install
// hint. [Tool.Path] is the presence probe; it fails with a
// MISSING_DEPENDENCY error. [Tool.Run] feeds stdin, captures stdout and
// wraps a non-zero exit as a TOOL_INVOCATION error carrying stderr.
package tool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/kando-menu/design/pkg/errors"
	"github.com/kando-menu/design/pkg/observability"
)

// Tool describes an external executable.
type Tool struct {
	Name string   // display name, e.g. "SVG optimizer"
	Bin  string   // executable looked up in PATH
	Alt  []string // fallbacks tried in order when Bin is absent
	Hint string   // install instructions shown when missing
}

// Path returns the absolute path of the first executable found.
func (t Tool) Path() (string, error) {
	for _, bin := range append([]string{t.Bin}, t.Alt...) {
		if bin == "" {
			continue
		}
		if p, err := exec.LookPath(bin); err == nil {
			return p, nil
		}
	}
	msg := fmt.Sprintf("%s requires %q, which was not found in PATH", t.Name, t.Bin)
	if t.Hint != "" {
		msg += ". Install with:\n" + t.Hint
	}
	return "", errors.New(errors.ErrCodeMissingDependency, "%s", msg)
}

// Available reports whether the tool can be found.
func (t Tool) Available() bool {
	_, err := t.Path()
	return err == nil
}

// Run executes the tool with args, writing stdin (if non-nil) to its
// standard input and returning its standard output.
func (t Tool) Run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	path, err := t.Path()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	start := time.Now()
	err = cmd.Run()
	observability.Tool().OnToolRun(ctx, t.Bin, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeToolInvocation, err, "%s %s: %s",
			t.Bin, strings.Join(args, " "), strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}

// String returns the executable name.
func (t Tool) String() string { return t.Bin }

// Probe checks that every tool is installed and returns the first
// MISSING_DEPENDENCY error.
func Probe(tools ...Tool) error {
	for _, t := range tools {
		if _, err := t.Path(); err != nil {
			return err
		}
	}
	return nil
}

// Status is the probe result for one tool.
type Status struct {
	Tool Tool
	Path string // resolved executable, empty when missing
	Err  error
}

// Report probes every tool without stopping at the first failure.
func Report(tools ...Tool) []Status {
	statuses := make([]Status, 0, len(tools))
	for _, t := range tools {
		p, err := t.Path()
		statuses = append(statuses, Status{Tool: t, Path: p, Err: err})
	}
	return statuses
}
