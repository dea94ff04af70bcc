package version

// Version is stamped at build time via -ldflags.
var Version = "0.3.0-dev"
