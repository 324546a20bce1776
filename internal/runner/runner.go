// Package runner launches scripts against the selected input images and
// decodes the image they write.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atomicstack/image-transfer/internal/codec"
	"github.com/atomicstack/image-transfer/internal/logging"
	"github.com/atomicstack/image-transfer/internal/logging/events"
	"github.com/atomicstack/image-transfer/internal/script"
	"github.com/atomicstack/image-transfer/internal/task"
	"github.com/google/uuid"
)

// DefaultOutput is where scripts are asked to write their result.
const DefaultOutput = "outcome/result.jpg"

// Request is one execution, built when the user triggers it.
type Request struct {
	// ID correlates trace entries; Run fills it when empty.
	ID        string
	Script    script.Descriptor
	Arity     script.Arity
	Inputs    []string
	Output    string
	ExtraArgs string
}

// Result is the outcome of a run. Err is nil only when the process exited
// zero and the output decoded.
type Result struct {
	Output string
	Image  *codec.Image
	Bytes  int64
	Stdout string
	Stderr string
	Err    error
}

// Runner turns requests into subprocesses.
type Runner struct {
	Interpreter script.Interpreter
	Codec       codec.Codec
	// Dir is the working directory for scripts; empty means the current one.
	Dir string
	// WaitDelay bounds how long output pipes are drained after the process
	// exits or is killed.
	WaitDelay time.Duration
}

// New returns a Runner using c to read outputs. A nil codec selects
// codec.Default.
func New(interp script.Interpreter, c codec.Codec) *Runner {
	if c == nil {
		c = codec.Default
	}
	return &Runner{Interpreter: interp, Codec: c, WaitDelay: 2 * time.Second}
}

// Command returns the executable and arguments for req:
//
//	interpreted: <interpreter> <script> <output> [inputs...] [extra]
//	native:      <script> <output> [inputs...] [extra]
//
// A non-empty ExtraArgs is passed through as one argument, unsplit.
func (r *Runner) Command(req Request) (string, []string, error) {
	if req.Script.IsZero() {
		return "", nil, &RequestError{Reason: "no script selected"}
	}
	if strings.TrimSpace(req.Output) == "" {
		return "", nil, &RequestError{Reason: "no output path"}
	}
	if len(req.Inputs) != req.Arity.Inputs() {
		return "", nil, &RequestError{Reason: fmt.Sprintf("%s mode needs %d input(s), got %d", req.Arity, req.Arity.Inputs(), len(req.Inputs))}
	}
	for i, in := range req.Inputs {
		if strings.TrimSpace(in) == "" {
			return "", nil, &RequestError{Reason: fmt.Sprintf("input %d is empty", i+1)}
		}
	}

	var name string
	var args []string
	switch req.Script.Kind {
	case script.KindNative:
		name = req.Script.Path
	default:
		name = r.Interpreter.Resolve()
		args = append(args, req.Script.Path)
	}
	args = append(args, req.Output)
	args = append(args, req.Inputs...)
	if req.ExtraArgs != "" {
		args = append(args, req.ExtraArgs)
	}
	return name, args, nil
}

// Run starts req on a background task. Request errors resolve immediately.
func (r *Runner) Run(ctx context.Context, req Request) *task.Handle[Result] {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if _, _, err := r.Command(req); err != nil {
		logging.Error(err)
		return task.Resolved("run", Result{Output: req.Output, Err: err})
	}
	return task.Spawn("run", func() (Result, bool) {
		return r.Exec(ctx, req), true
	})
}

// Exec runs req synchronously.
func (r *Runner) Exec(ctx context.Context, req Request) Result {
	res := Result{Output: req.Output}
	name, args, err := r.Command(req)
	if err != nil {
		res.Err = err
		return res
	}
	events.Run.Queue(req.ID, name, args)

	if err := prepareOutput(req.Output); err != nil {
		res.Err = &OutputError{Path: req.Output, Err: err}
		logging.Error(res.Err)
		return res
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.WaitDelay = r.WaitDelay
	var stdout, stderr tailBuffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		res.Err = &SpawnError{Name: name, Err: err}
		events.Run.Exit(req.ID, -1, res.Err)
		logging.Error(res.Err)
		return res
	}
	waitErr := cmd.Wait()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	if waitErr != nil {
		exitErr := exitError(name, waitErr, res.Stderr)
		res.Err = exitErr
		events.Run.Exit(req.ID, exitErr.Status, exitErr)
		logging.Error(fmt.Errorf("%w\n%s", exitErr, strings.TrimSpace(res.Stderr)))
		return res
	}
	events.Run.Exit(req.ID, 0, nil)

	img, err := r.Codec.Decode(req.Output)
	if err != nil {
		res.Err = &OutputError{Path: req.Output, Err: err}
		events.Run.Output(req.ID, req.Output, res.Err)
		logging.Error(res.Err)
		return res
	}
	events.Run.Output(req.ID, req.Output, nil)
	res.Image = img
	if info, err := os.Stat(req.Output); err == nil {
		res.Bytes = info.Size()
	}
	return res
}

func exitError(name string, err error, stderr string) *ExitError {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		status := exitErr.ExitCode()
		return &ExitError{Name: name, Status: status, Stderr: stderr, Err: err}
	}
	return &ExitError{Name: name, Status: -1, Stderr: stderr, Err: err}
}

// prepareOutput creates the output directory and removes a previous result so
// a script that exits without writing cannot leave a stale image behind.
func prepareOutput(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
