package rail

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/rail.Version=...".
var Version = "0.4.0-dev"
