package execute

import (
	"github.com/mitchellh/go-ps"
)

// ProcessName returns the executable name the process table reports for pid.
// It returns an empty name and no error when no such process exists.
func ProcessName(pid int) (string, error) {
	process, err := ps.FindProcess(pid)
	if err != nil {
		return "", err
	}

	if process == nil {
		return "", nil
	}

	return process.Executable(), nil
}
