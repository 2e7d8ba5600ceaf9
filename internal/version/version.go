package version

// Build information, injected via -ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)
