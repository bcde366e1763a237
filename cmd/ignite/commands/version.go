package commands

import "github.com/inonjs/ignite/internal/version"

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	printf("%s\n", version.String())
	return nil
}
