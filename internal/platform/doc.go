// Package platform resolves the host operating system, CPU architecture and
// (on Linux) libc flavor into the canonical triple string used to name
// release assets, e.g. "x86_64-unknown-linux-gnu".
//
// Resolution is a runtime table lookup so an unsupported host produces a
// typed error before any network call instead of a wrong asset name.
package platform
