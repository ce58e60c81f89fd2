// Package opener hands plot files to the operating system's image viewer.
package opener

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"plotnav/internal/ports"
)

var _ ports.PlotOpener = (*Opener)(nil)

// Opener implements ports.PlotOpener
type Opener struct {
	command string // e.g. "feh --scale-down"; empty uses the OS default
	goos    string
}

// NewOpener creates an opener. An empty command falls back to
// open, xdg-open or start depending on the OS.
func NewOpener(command string) *Opener {
	return &Opener{
		command: strings.TrimSpace(command),
		goos:    runtime.GOOS,
	}
}

// OpenFile opens a file in the viewer and waits for the launcher to return
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

// Command returns an exec.Cmd for opening a file.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	argv, err := o.argv(path)
	if err != nil {
		return nil, err
	}
	return exec.Command(argv[0], argv[1:]...), nil
}

func (o *Opener) argv(path string) ([]string, error) {
	if o.command != "" {
		fields := strings.Fields(o.command)
		return append(fields, path), nil
	}

	switch o.goos {
	case "darwin":
		return []string{"open", path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return []string{"xdg-open", path}, nil
	case "windows":
		return []string{"cmd", "/c", "start", "", path}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
