package epicchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/epicchainlabs/epicchain-go/internal/config"
	"github.com/epicchainlabs/epicchain-go/internal/devcontainer"
)

// newDocker is replaced in tests.
var newDocker = func() devcontainer.Docker { return devcontainer.NewCLI() }

var DevCmd = &cobra.Command{
	Use:   "dev [-- command...]",
	Short: "Start the development container",
	Long: `Build the development image if it is missing, then run it with the workspace
mounted and the dependency cache kept in a named volume. Arguments after -- replace
the image's default command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		devConfig := config.LoadDevConfigFromCLI()
		devConfig.Command = args
		if err := devConfig.Validate(); err != nil {
			return fmt.Errorf("invalid dev configuration: %w", err)
		}
		slog.Debug("Command-line arguments", "devConfig", devConfig)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		handleInterrupt(ctx, cancel)

		return devcontainer.NewLauncher(newDocker(), devConfig.Options).Up(ctx)
	},
}

func init() {
	DevCmd.Flags().String("image", devcontainer.DefaultImage, "Image to run, built when missing")
	DevCmd.Flags().String("context", devcontainer.DefaultContextDir, "Build context of the image")
	DevCmd.Flags().String("dockerfile", "", "Dockerfile used to build the image (defaults to the one in the build context)")
	DevCmd.Flags().String("workspace", "", "Host directory mounted into the container (defaults to the current directory)")
	DevCmd.Flags().String("workdir", devcontainer.DefaultWorkDir, "Mount point and working directory inside the container")
	DevCmd.Flags().String("cache-volume", devcontainer.DefaultCacheVolume, "Named volume for the dependency cache")
	DevCmd.Flags().String("cache-path", devcontainer.DefaultCachePath, "Mount point of the cache volume")
	DevCmd.Flags().Bool("no-tty", false, "Do not attach an interactive terminal")
	DevCmd.Flags().StringArray("docker-arg", nil, "Extra argument passed to docker run (repeatable)")
}
