// Package opener hands files and URLs to the desktop's default application.
package opener

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches the platform's open command without waiting for it.
type Opener struct {
	goos  string
	start func(name string, args ...string) error
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, start: startCommand}
}

func startCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// Open opens target, which is either a URL or a local path. Local paths
// must exist.
func (o *Opener) Open(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	if !isURL(target) {
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", target)
			}
			return fmt.Errorf("checking file: %w", err)
		}
	}

	name, args, err := o.command(target)
	if err != nil {
		return err
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	return nil
}

func (o *Opener) command(target string) (string, []string, error) {
	switch o.goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", o.goos)
	}
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
