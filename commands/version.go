package commands

// VERSION is reported by --version on both entry points.
const VERSION = "v0.3.1"
