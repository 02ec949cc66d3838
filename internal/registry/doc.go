// Package registry resolves release metadata and downloads release assets
// from a GitHub-compatible release registry over read-only HTTP.
//
// It exposes three operations the update pipeline composes: Resolve (version
// resolution, latest or pinned tag), SelectAsset (exact-name platform asset
// selection) and Download (chunked in-memory streaming with progress).
package registry
