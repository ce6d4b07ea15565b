package version

// Version is the current build version, overridden at link time with
// -ldflags "-X github.com/Dicklesworthstone/bottomsheet/pkg/version.Version=..."
var Version = "v0.1.0"
