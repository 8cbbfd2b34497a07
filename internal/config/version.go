package config

// Version is the docgraph binary version.
// Set at build time via: -ldflags "-X github.com/docgraph/docgraph/internal/config.Version=<tag>"
var Version = "dev"
