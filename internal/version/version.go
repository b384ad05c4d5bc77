package version

// AppVersion is the snekctl release version. Overridden at build time via
// -ldflags "-X snekctl/internal/version.AppVersion=...".
var AppVersion = "0.3.0"
