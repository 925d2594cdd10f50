package app

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
)

// ExecRunner executes run files as programs inside their directory.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) Run(dir, name string) error {
	cmd := exec.Command(filepath.Join(dir, name))
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("executing %s: %w", name, err)
	}
	return nil
}
