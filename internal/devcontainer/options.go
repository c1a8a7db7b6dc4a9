package devcontainer

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultImage       = "my-rust-image"
	DefaultContextDir  = "."
	DefaultWorkDir     = "/usr/src/app"
	DefaultCacheVolume = "cargo-registry"
	DefaultCachePath   = "/usr/local/cargo/registry"
)

// Options describe the development image and how its container is started.
type Options struct {
	Image       string
	ContextDir  string
	Dockerfile  string
	Workspace   string
	WorkDir     string
	CacheVolume string
	CachePath   string
	Interactive bool
	ExtraArgs   []string
	Command     []string
}

// DefaultOptions mounts the current directory as the workspace.
func DefaultOptions() Options {
	wd, err := os.Getwd()
	if err != nil {
		// Validate resolves "." again and reports the failure.
		wd = "."
	}
	return Options{
		Image:       DefaultImage,
		ContextDir:  DefaultContextDir,
		Workspace:   wd,
		WorkDir:     DefaultWorkDir,
		CacheVolume: DefaultCacheVolume,
		CachePath:   DefaultCachePath,
		Interactive: true,
	}
}

// Validate checks the options and resolves the workspace to an absolute path.
func (o *Options) Validate() error {
	if o.Image == "" {
		return fmt.Errorf("image name is required")
	}
	if o.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}
	abs, err := filepath.Abs(o.Workspace)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace %s: %w", o.Workspace, err)
	}
	o.Workspace = abs

	if o.WorkDir == "" {
		o.WorkDir = DefaultWorkDir
	}
	if !filepath.IsAbs(o.WorkDir) {
		return fmt.Errorf("container working directory must be absolute: %s", o.WorkDir)
	}
	if o.ContextDir == "" {
		o.ContextDir = DefaultContextDir
	}
	if (o.CacheVolume == "") != (o.CachePath == "") {
		return fmt.Errorf("cache volume and cache path must be set together")
	}
	return nil
}
