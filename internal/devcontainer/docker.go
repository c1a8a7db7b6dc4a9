package devcontainer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Docker is the subset of the Docker CLI the launcher needs.
type Docker interface {
	ImageExists(ctx context.Context, image string) (bool, error)
	Build(ctx context.Context, image, contextDir, dockerfile string) error
	Run(ctx context.Context, args []string) error
}

// ExitError reports a docker invocation that exited with a non-zero status.
// Stderr is only set when the output was captured.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("docker %s exited with status %d: %s", e.Cmd, e.Code, e.Stderr)
	}
	return fmt.Sprintf("docker %s exited with status %d", e.Cmd, e.Code)
}

// CLI runs the docker binary.
type CLI struct {
	Binary string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCLI streams the container's IO through the current process.
func NewCLI() *CLI {
	return &CLI{
		Binary: "docker",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// ImageExists inspects the image. Only a "No such image" failure means it is
// absent; other failures, such as an unreachable daemon, are returned.
func (c *CLI) ImageExists(ctx context.Context, image string) (bool, error) {
	var stderr bytes.Buffer
	err := c.exec(ctx, []string{"image", "inspect", image}, nil, io.Discard, &stderr)
	if err == nil {
		return true, nil
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return false, err
	}
	msg := strings.TrimSpace(stderr.String())
	if exitErr.Code == 1 && strings.Contains(strings.ToLower(msg), "no such image") {
		return false, nil
	}
	exitErr.Stderr = msg
	return false, exitErr
}

func (c *CLI) Build(ctx context.Context, image, contextDir, dockerfile string) error {
	args := []string{"build", "-t", image}
	if dockerfile != "" {
		args = append(args, "-f", dockerfile)
	}
	args = append(args, contextDir)
	return c.exec(ctx, args, nil, c.Stdout, c.Stderr)
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	return c.exec(ctx, args, c.Stdin, c.Stdout, c.Stderr)
}

func (c *CLI) exec(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	bin := c.Binary
	if bin == "" {
		bin = "docker"
	}
	slog.Debug("Running docker", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Cmd: args[0], Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("failed to run %s: %w", bin, err)
	}
	return nil
}
