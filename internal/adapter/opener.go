package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// systemOpeners is the default URL opener per platform
var systemOpeners = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// commandRunner starts a process without waiting for it
type commandRunner func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap in the background so the browser outlives us cleanly
	go cmd.Wait()
	return nil
}

// Opener opens recipe source URLs in the user's browser
type Opener struct {
	command []string
	run     commandRunner
	logger  *slog.Logger
}

// NewOpener creates an opener. An empty command uses the platform default.
func NewOpener(command string, logger *slog.Logger) *Opener {
	if logger == nil {
		logger = slog.Default()
	}
	argv := strings.Fields(command)
	if len(argv) == 0 {
		argv = systemOpeners[runtime.GOOS]
	}
	return &Opener{command: argv, run: startDetached, logger: logger}
}

// Open launches url
func (o *Opener) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no url to open")
	}
	if len(o.command) == 0 {
		return fmt.Errorf("no url opener for %s", runtime.GOOS)
	}

	args := append(append([]string{}, o.command[1:]...), url)
	o.logger.Debug("opening url", "command", o.command[0], "url", url)
	if err := o.run(o.command[0], args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Camera captures photos with an external command such as fswebcam
type Camera struct {
	command string
	args    []string
	logger  *slog.Logger
}

// NewCamera returns nil when no command is configured
func NewCamera(command string, args []string, logger *slog.Logger) *Camera {
	if command == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Camera{command: command, args: args, logger: logger}
}

// Capture runs the command and waits for it to write outPath.
// "{out}" in the args is replaced by outPath; when absent, outPath is appended.
func (c *Camera) Capture(ctx context.Context, outPath string) error {
	args := make([]string, 0, len(c.args)+1)
	substituted := false
	for _, a := range c.args {
		if strings.Contains(a, "{out}") {
			a = strings.ReplaceAll(a, "{out}", outPath)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, outPath)
	}

	c.logger.Debug("capturing photo", "command", c.command, "args", args)
	out, err := exec.CommandContext(ctx, c.command, args...).CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w: %s", c.command, err, strings.TrimSpace(string(out)))
	}
	return nil
}
