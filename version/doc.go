// Package version carries build metadata for errhook binaries.
//
// Values are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/errhook/version.Version=1.0.0"
//
// and fall back to the module build info when unset. The version string is
// attached to telemetry resources so escaped-error metrics can be split by
// release.
package version
