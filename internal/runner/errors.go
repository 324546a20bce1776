package runner

import "fmt"

// RequestError reports a request that cannot be turned into a command line.
type RequestError struct {
	Reason string
}

func (e *RequestError) Error() string {
	return "invalid run request: " + e.Reason
}

// SpawnError reports an executable that could not be started.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitError reports a process that exited unsuccessfully. Status is -1 when
// the process did not exit normally (killed by a signal or cancelled).
type ExitError struct {
	Name   string
	Status int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if e.Status < 0 {
		return fmt.Sprintf("%s terminated: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Name, e.Status)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// OutputError reports a successful exit whose output image is missing or
// unreadable.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s unreadable: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}
