package invoke

import (
	"fmt"
	"os"
)

// ExitStatus describes how an external process ended.
type ExitStatus interface {
	// Success reports whether the process exited with code 0.
	Success() bool
	// ExitCode returns the exit code, or false if the process did not exit
	// normally.
	ExitCode() (int, bool)
	// TerminatingSignal returns the signal that killed the process. It always
	// reports false on platforms without signals.
	TerminatingSignal() (int, bool)
}

// ExternalToolFailedError reports a non-successful run of the external tool.
// Code is -1 when the process was killed by a signal; Signal is 0 when it
// exited on its own.
type ExternalToolFailedError struct {
	Code   int
	Signal int
}

func (e *ExternalToolFailedError) Error() string {
	if e.Signal != 0 {
		return fmt.Sprintf("external tool terminated by signal %d (%s)", e.Signal, signalName(e.Signal))
	}
	return fmt.Sprintf("external tool exited with code %d", e.Code)
}

// ExitCodeFor returns the process exit code a wrapper should use to mirror
// the failed tool: the tool's own code, or 128+signal.
func (e *ExternalToolFailedError) ExitCodeFor() int {
	if e.Signal != 0 {
		return 128 + e.Signal
	}
	if e.Code > 0 {
		return e.Code
	}
	return 1
}

// failure converts a non-successful status into an error.
func failure(status ExitStatus) *ExternalToolFailedError {
	e := &ExternalToolFailedError{Code: -1}
	if code, ok := status.ExitCode(); ok {
		e.Code = code
	}
	if sig, ok := status.TerminatingSignal(); ok {
		e.Signal = sig
	}
	return e
}

// processStatus adapts *os.ProcessState to ExitStatus.
type processStatus struct {
	state *os.ProcessState
}

// StatusOf wraps a finished process state.
func StatusOf(state *os.ProcessState) ExitStatus {
	return processStatus{state: state}
}

func (s processStatus) Success() bool {
	return s.state.Success()
}

func (s processStatus) ExitCode() (int, bool) {
	code := s.state.ExitCode()
	return code, code >= 0
}

func (s processStatus) TerminatingSignal() (int, bool) {
	return terminatingSignal(s.state)
}
