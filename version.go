package tribble

// Version is the release of the module. Release builds override it with
// -ldflags "-X github.com/aretw0/tribble.Version=...".
var Version = "0.1.0-dev"
