package ports

import "os/exec"

// PlotOpener hands a plot file to an external image viewer
type PlotOpener interface {
	// OpenFile opens the file and waits for the launcher to return
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file.
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}
