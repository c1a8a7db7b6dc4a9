package devcontainer

import (
	"context"
	"fmt"
	"log/slog"
)

// Launcher builds the development image when missing and runs it.
type Launcher struct {
	Docker  Docker
	Options Options
}

func NewLauncher(d Docker, opts Options) *Launcher {
	return &Launcher{Docker: d, Options: opts}
}

// EnsureImage builds the image if it does not exist yet and reports whether
// a build happened.
func (l *Launcher) EnsureImage(ctx context.Context) (bool, error) {
	exists, err := l.Docker.ImageExists(ctx, l.Options.Image)
	if err != nil {
		return false, fmt.Errorf("failed to inspect image %s: %w", l.Options.Image, err)
	}
	if exists {
		slog.Debug("Image found", "image", l.Options.Image)
		return false, nil
	}

	slog.Info("Building image", "image", l.Options.Image, "context", l.Options.ContextDir)
	if err := l.Docker.Build(ctx, l.Options.Image, l.Options.ContextDir, l.Options.Dockerfile); err != nil {
		return false, err
	}
	return true, nil
}

// RunArgs returns the docker arguments that start the container.
func (l *Launcher) RunArgs() []string {
	o := l.Options
	args := []string{"run", "--rm"}
	if o.Interactive {
		args = append(args, "-it")
	}
	args = append(args, "-v", o.Workspace+":"+o.WorkDir)
	if o.CacheVolume != "" {
		args = append(args, "-v", o.CacheVolume+":"+o.CachePath)
	}
	args = append(args, "-w", o.WorkDir)
	args = append(args, o.ExtraArgs...)
	args = append(args, o.Image)
	return append(args, o.Command...)
}

// Up ensures the image and runs the container in the foreground.
func (l *Launcher) Up(ctx context.Context) error {
	if err := l.Options.Validate(); err != nil {
		return err
	}
	if _, err := l.EnsureImage(ctx); err != nil {
		return err
	}
	slog.Info("Starting container", "image", l.Options.Image, "workspace", l.Options.Workspace)
	return l.Docker.Run(ctx, l.RunArgs())
}
