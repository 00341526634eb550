package executor

import (
	"fmt"
	"strings"
	"sync"
)

// InMemoryExecutor is a scripted CommandExecutor for tests. Outputs are
// keyed by "<workingDir> <args...>"; unscripted commands fail.
type InMemoryExecutor struct {
	mu      sync.Mutex
	outputs map[string][]byte
	errors  map[string]error
	Calls   []string
}

// NewInMemoryExecutor creates an empty scripted executor
func NewInMemoryExecutor() *InMemoryExecutor {
	return &InMemoryExecutor{
		outputs: make(map[string][]byte),
		errors:  make(map[string]error),
	}
}

func commandKey(workingDir string, args ...string) string {
	return workingDir + " " + strings.Join(args, " ")
}

// Stub registers the output for a command
func (e *InMemoryExecutor) Stub(workingDir string, output string, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outputs[commandKey(workingDir, args...)] = []byte(output)
}

// StubError registers a failure for a command
func (e *InMemoryExecutor) StubError(workingDir string, err error, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errors[commandKey(workingDir, args...)] = err
}

// ExecuteGitWithWorkingDir returns the scripted output for the command
func (e *InMemoryExecutor) ExecuteGitWithWorkingDir(workingDir string, args ...string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := commandKey(workingDir, args...)
	e.Calls = append(e.Calls, key)

	if err, ok := e.errors[key]; ok {
		return nil, err
	}
	if out, ok := e.outputs[key]; ok {
		return out, nil
	}
	return nil, fmt.Errorf("no stub for git command: %s", key)
}
