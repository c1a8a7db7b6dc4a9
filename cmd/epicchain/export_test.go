package epicchain

import (
	"time"

	"github.com/epicchainlabs/epicchain-go/internal/devcontainer"
)

// SetDocker swaps the docker client used by the dev command.
func SetDocker(d devcontainer.Docker) (restore func()) {
	old := newDocker
	newDocker = func() devcontainer.Docker { return d }
	return func() { newDocker = old }
}

func SetApplicationLogPollInterval(d time.Duration) (restore func()) {
	old := applicationLogPollInterval
	applicationLogPollInterval = d
	return func() { applicationLogPollInterval = old }
}
