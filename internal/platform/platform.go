package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Libc identifies the C library flavor a Linux release is linked against.
// It is irrelevant (LibcNone) on every other operating system.
type Libc string

// Supported libc variants.
const (
	LibcNone Libc = ""
	LibcGNU  Libc = "gnu"
	LibcMusl Libc = "musl"
)

// Target identifies the host platform a release asset must be built for.
type Target struct {
	// OS is the operating system in GOOS notation.
	OS string
	// Arch is the CPU architecture in GOARCH notation.
	Arch string
	// Libc is the C library variant, meaningful on Linux only.
	Libc Libc
}

// key indexes the triple table. Unlike Target it is unexported because the
// table is the only consumer.
type key struct {
	os   string
	arch string
	libc Libc
}

// triples enumerates every supported (OS, architecture, libc) combination.
// The Windows entry carries the .exe suffix because release assets for
// Windows are published with it as part of the triple.
//
//nolint:gochecknoglobals // Lookup table is immutable.
var triples = map[key]string{
	{"darwin", "arm64", LibcNone}:  "aarch64-apple-darwin",
	{"darwin", "amd64", LibcNone}:  "x86_64-apple-darwin",
	{"linux", "amd64", LibcGNU}:    "x86_64-unknown-linux-gnu",
	{"linux", "amd64", LibcMusl}:   "x86_64-unknown-linux-musl",
	{"linux", "arm64", LibcGNU}:    "aarch64-unknown-linux-gnu",
	{"linux", "arm64", LibcMusl}:   "aarch64-unknown-linux-musl",
	{"windows", "amd64", LibcNone}: "x86_64-pc-windows-msvc.exe",
}

// muslLoaders are dynamic loader paths whose presence marks a musl system.
//
//nolint:gochecknoglobals // Lookup table is immutable.
var muslLoaders = map[string]string{
	"amd64": "/lib/ld-musl-x86_64.so.1",
	"arm64": "/lib/ld-musl-aarch64.so.1",
}

// UnsupportedError reports a host combination with no published build.
type UnsupportedError struct {
	Target Target
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	if e.Target.Libc != LibcNone {
		return fmt.Sprintf("unsupported platform: %s/%s (%s)", e.Target.OS, e.Target.Arch, e.Target.Libc)
	}

	return fmt.Sprintf("unsupported platform: %s/%s", e.Target.OS, e.Target.Arch)
}

// Detect resolves the host platform once at startup. The result is fixed for
// the lifetime of the process.
func Detect() Target {
	return Target{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
		Libc: detectLibc(runtime.GOOS, runtime.GOARCH),
	}
}

// Triple maps the target to its canonical triple string, or returns an
// UnsupportedError when no release is published for the combination.
// The mapping is pure: callers can resolve it before touching the network.
func (t Target) Triple() (string, error) {
	triple, ok := triples[key{t.OS, t.Arch, t.Libc}]
	if !ok {
		return "", &UnsupportedError{Target: t}
	}

	return triple, nil
}

// detectLibc probes for a musl dynamic loader on Linux. A static Go binary
// cannot inspect its own libc, so loader presence is the best available
// signal; everything else is treated as gnu, matching what the published
// release matrix assumes.
func detectLibc(goos, goarch string) Libc {
	if goos != "linux" {
		return LibcNone
	}

	if loader, ok := muslLoaders[goarch]; ok {
		if _, err := os.Stat(loader); err == nil {
			return LibcMusl
		}
	}

	return LibcGNU
}
