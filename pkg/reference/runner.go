package reference

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
)

// Runner produces an output file from an input file for (mode, size).
type Runner interface {
	Run(mode engine.Mode, size int, input, output string) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(mode engine.Mode, size int, input, output string) error

// Run calls f.
func (f RunnerFunc) Run(mode engine.Mode, size int, input, output string) error {
	return f(mode, size, input, output)
}

// ExecRunner runs an ORCA-compatible executable.
type ExecRunner struct {
	Path string
}

// RunError reports a failed executable run with its captured stderr.
type RunError struct {
	Path   string
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Path, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Run invokes the executable as "<path> <mode> <size> <input> <output>".
func (r ExecRunner) Run(mode engine.Mode, size int, input, output string) error {
	args := []string{string(mode), strconv.Itoa(size), input, output}
	cmd := exec.Command(r.Path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &RunError{
			Path:   r.Path,
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return nil
}
