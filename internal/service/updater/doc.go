// Package updater implements the self-update pipeline: resolve the target
// release, decide whether an update is needed, select the platform asset,
// download it, and replace the installed binary crash-safely.
//
// The pipeline is strictly linear with two early exits (already up to date,
// user declined) and runs fully sequentially. Presentation concerns
// (progress, confirmation) and process invocation are injected collaborators
// so the pipeline is testable without a terminal or real binaries.
package updater
