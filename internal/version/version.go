// Package version holds the application name shown to users. Version is set
// at build time with -ldflags "-X github.com/keshon/smartcmd/internal/version.Version=...".
package version

var (
	AppName        = "Smartcmd"
	AppDescription = "A chat bot that reads command arguments the way you type them."
	Version        = "dev"
)
