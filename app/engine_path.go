package app

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Well-known Stockfish binary names probed by DetectEngine, most specific
// first. The official Linux release ships under the avx2 name.
var knownEngineNames = []string{
	"stockfish-ubuntu-x86-64-avx2",
	"stockfish-ubuntu-x86-64",
	"stockfish",
}

// ResolveEnginePath turns user input into the absolute path of an executable
// engine binary. Input is either a path to an executable regular file, or a
// bare command name looked up on PATH. Anything else is rejected before a
// launch is ever attempted.
func ResolveEnginePath(userValue string) (string, error) {
	userValue = strings.TrimSpace(userValue)
	if userValue == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidExecutable)
	}

	if info, err := os.Stat(userValue); err == nil {
		if !info.Mode().IsRegular() {
			return "", fmt.Errorf("%w: %s is not a regular file", ErrInvalidExecutable, userValue)
		}
		if info.Mode().Perm()&0o111 == 0 {
			return "", fmt.Errorf("%w: %s is not executable", ErrInvalidExecutable, userValue)
		}
		abs, err := filepath.Abs(userValue)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidExecutable, err)
		}
		return abs, nil
	}

	// A path that names a directory separator but doesn't exist is not a
	// command name; don't fall through to PATH lookup for it.
	if strings.ContainsRune(userValue, os.PathSeparator) {
		return "", fmt.Errorf("%w: %s not found", ErrInvalidExecutable, userValue)
	}

	resolved, err := exec.LookPath(userValue)
	if err != nil {
		return "", fmt.Errorf("%w: %q not found on PATH", ErrInvalidExecutable, userValue)
	}
	return resolved, nil
}

// DetectEngine probes PATH for well-known Stockfish binary names and returns
// the first hit, or "" when none is installed.
func DetectEngine() string {
	for _, name := range knownEngineNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
