package updater

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/mq-update/internal/config"
	"github.com/oshokin/mq-update/internal/logger"
	"github.com/oshokin/mq-update/internal/platform"
	"github.com/oshokin/mq-update/internal/registry"
)

var (
	errUnknownBinary      = errors.New("binary is not part of the managed family")
	errNotInstalled       = errors.New("binary is not installed")
	errEmptyVersionOutput = errors.New("empty version output")
)

// builtinFamily maps the binaries this tool knows how to update out of the
// box to their release repositories. The settings file can extend it.
//
//nolint:gochecknoglobals // Lookup table is immutable.
var builtinFamily = map[string]string{
	"mq": "harehare/mq",
}

// DefaultBinaryName is the binary updated when the CLI is invoked without a
// family subcommand.
const DefaultBinaryName = "mq"

// pipelineState is one node of the strictly linear update state machine.
type pipelineState string

// Pipeline states, in execution order. The only early exits are Done on
// already-up-to-date, Cancelled at the confirmation prompt, and the
// universal Failed exit.
const (
	stateIdle             pipelineState = "idle"
	stateResolvingVersion pipelineState = "resolving_version"
	stateCheckingUpToDate pipelineState = "checking_up_to_date"
	stateSelectingAsset   pipelineState = "selecting_asset"
	stateDownloading      pipelineState = "downloading"
	stateConfirming       pipelineState = "confirming_replace"
	stateBackingUp        pipelineState = "backing_up"
	stateWritingTemp      pipelineState = "writing_temp"
	stateRenaming         pipelineState = "renaming"
	stateCleaningUp       pipelineState = "cleaning_up"
	stateVerifying        pipelineState = "verifying"
	stateDone             pipelineState = "done"
	stateCancelled        pipelineState = "cancelled"
	stateFailed           pipelineState = "failed"
)

// Outcome describes how a pipeline run ended.
type Outcome string

// Possible run outcomes. Cancelled and UpToDate end the run without any
// filesystem mutation.
const (
	OutcomeUpToDate  Outcome = "up-to-date"
	OutcomeUpdated   Outcome = "updated"
	OutcomeInstalled Outcome = "installed"
	OutcomeCancelled Outcome = "cancelled"
)

// Options are inputs accepted by the updater entry point.
type Options struct {
	// BinaryName selects the family binary to update. Empty means
	// DefaultBinaryName.
	BinaryName string
	// TargetVersion pins the version to install. Empty means latest.
	TargetVersion string
	// Force reinstalls even when already up to date and skips the prompt.
	Force bool
	// AssumeYes skips the confirmation prompt without forcing a reinstall.
	AssumeYes bool
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string

	// Progress receives download progress. Nil means silent.
	Progress ProgressSink
	// Prompt asks for replacement confirmation. Nil declines, so
	// non-interactive callers must set Force or AssumeYes.
	Prompt ConfirmationPrompt
	// Commands invokes installed binaries. Nil means real processes.
	Commands CommandRunner
	// Locator searches for installed binaries. Nil means PATH search.
	Locator BinaryLocator
}

// Result is the report of a completed (or early-exited) pipeline run.
type Result struct {
	// Outcome is how the run ended.
	Outcome Outcome
	// BinaryName is the family binary that was processed.
	BinaryName string
	// Path is where the binary is (or would have been) installed.
	Path string
	// PreviousVersion is the version found before the run, empty for
	// new installs.
	PreviousVersion string
	// TargetVersion is the resolved version of the release.
	TargetVersion string
	// InstalledVersion is what the binary reported after replacement,
	// empty when verification could not run.
	InstalledVersion string
	// VersionMismatch is true when post-replace verification disagreed
	// with the target. The update itself still succeeded.
	VersionMismatch bool
}

// runner holds the state for a single update execution. It is intentionally
// unexported: call Run(ctx, opts) from callers.
type runner struct {
	opts     *Options
	cfg      *config.Config
	client   *registry.Client
	progress ProgressSink
	prompt   ConfirmationPrompt
	commands CommandRunner
	locator  BinaryLocator
	state    pipelineState
}

// Run executes the update pipeline and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "mq-update")

	u, err := newRunner(opts)
	if err != nil {
		return nil, err
	}

	result, err := u.run(ctx)
	if err != nil {
		u.setState(ctx, stateFailed)
		logger.ErrorKV(ctx, "Update run failed", "error", err)

		return nil, err
	}

	return result, nil
}

// CurrentVersion locates the installed binary and returns its version. It
// backs the "show current version only" flag and never touches the network.
func CurrentVersion(ctx context.Context, opts *Options) (string, error) {
	ctx = logger.WithName(ctx, "mq-update")

	u, err := newRunner(opts)
	if err != nil {
		return "", err
	}

	binaryName := u.binaryName()

	path, err := u.locator.Locate(binaryName)
	if err != nil {
		return "", fmt.Errorf("locate %s: %w", binaryName, err)
	}

	if path == "" {
		return "", fmt.Errorf("%s: %w", binaryName, errNotInstalled)
	}

	return u.installedVersion(ctx, path)
}

// newRunner loads settings and fills collaborator defaults.
func newRunner(opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	u := &runner{
		opts:     opts,
		cfg:      cfg,
		client:   registry.NewClient(cfg.RegistryBaseURL, cfg.Timeout),
		progress: opts.Progress,
		prompt:   opts.Prompt,
		commands: opts.Commands,
		locator:  opts.Locator,
		state:    stateIdle,
	}

	if u.progress == nil {
		u.progress = silentProgress{}
	}

	if u.prompt == nil {
		u.prompt = declinePrompt{}
	}

	if u.commands == nil {
		u.commands = execRunner{}
	}

	if u.locator == nil {
		u.locator = pathLocator{}
	}

	return u, nil
}

// run walks the linear pipeline: resolve, decide, select, download, confirm,
// replace, verify.
func (u *runner) run(ctx context.Context) (*Result, error) {
	binaryName := u.binaryName()

	repository, err := u.repository(binaryName)
	if err != nil {
		return nil, err
	}

	// The platform triple is pure and validated before any network call,
	// so an unsupported host fails fast.
	triple, err := platform.Detect().Triple()
	if err != nil {
		return nil, err
	}

	target, err := u.resolveInstallTarget(ctx, binaryName, u.cfg.InstallDir)
	if err != nil {
		return nil, err
	}

	u.setState(ctx, stateResolvingVersion)
	logger.InfoKV(ctx, "Resolving release", "repository", repository, "tag", u.opts.TargetVersion)

	release, err := u.client.Resolve(ctx, repository, u.opts.TargetVersion)
	if err != nil {
		return nil, err
	}

	result := &Result{
		BinaryName:      binaryName,
		Path:            target.path,
		PreviousVersion: target.currentVersion,
		TargetVersion:   release.Version(),
	}

	u.setState(ctx, stateCheckingUpToDate)

	// Versions are opaque strings: equality, not ordering, governs the
	// decision, so pinning an older release still installs it.
	if !u.opts.Force && !target.isNewInstall && target.currentVersion == result.TargetVersion {
		logger.InfoKV(ctx, "Already up to date", "version", result.TargetVersion)
		u.setState(ctx, stateDone)
		result.Outcome = OutcomeUpToDate

		return result, nil
	}

	u.setState(ctx, stateSelectingAsset)

	asset, err := registry.SelectAsset(release.Assets, binaryName, triple)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Selected asset", "name", asset.Name)
	u.setState(ctx, stateDownloading)

	newBytes, err := u.client.Download(ctx, asset.BrowserDownloadURL, u.progress.Progress)
	if err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Downloaded asset", "bytes", len(newBytes))

	confirmed, err := u.confirmReplace(ctx, target)
	if err != nil {
		return nil, err
	}

	if !confirmed {
		u.setState(ctx, stateCancelled)
		logger.Info(ctx, "Update cancelled at the confirmation prompt")
		result.Outcome = OutcomeCancelled

		return result, nil
	}

	u.noteRunningInstances(ctx, binaryName)

	if target.isNewInstall {
		if err = ensureInstallDir(target.path); err != nil {
			return nil, err
		}
	}

	if err = replaceBinary(target.path, newBytes, func(s pipelineState) {
		u.setState(ctx, s)
	}); err != nil {
		return nil, err
	}

	u.setState(ctx, stateVerifying)

	installed, ok := u.verifyInstalled(ctx, target.path, result.TargetVersion)
	result.InstalledVersion = installed
	result.VersionMismatch = !ok

	u.setState(ctx, stateDone)

	if target.isNewInstall {
		result.Outcome = OutcomeInstalled
	} else {
		result.Outcome = OutcomeUpdated
	}

	return result, nil
}

// confirmReplace applies the prompt policy: new installs, force and
// assume-yes all skip it. Cancellation is only possible here, before any
// filesystem mutation.
func (u *runner) confirmReplace(ctx context.Context, target *installTarget) (bool, error) {
	u.setState(ctx, stateConfirming)

	if u.opts.Force || u.opts.AssumeYes || target.isNewInstall {
		return true, nil
	}

	question := fmt.Sprintf("The binary at %s will be replaced. Do you want to continue?", target.path)

	confirmed, err := u.prompt.Confirm(ctx, question)
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	return confirmed, nil
}

// noteRunningInstances tells the user how many processes are currently
// executing the target binary. They keep the old inode after the rename and
// only pick up the new binary on restart. Informational only.
func (u *runner) noteRunningInstances(ctx context.Context, binaryName string) {
	processes, err := ps.Processes()
	if err != nil {
		logger.DebugKV(ctx, "Could not enumerate processes", "error", err)
		return
	}

	executable := binaryName + executableExtension()

	var running int

	for _, process := range processes {
		if process.Executable() == executable {
			running++
		}
	}

	if running > 0 {
		logger.InfoKV(ctx, "Running instances keep the old binary until restarted",
			"binary", executable, "instances", running)
	}
}

// binaryName returns the requested family binary, defaulting to mq.
func (u *runner) binaryName() string {
	if u.opts.BinaryName == "" {
		return DefaultBinaryName
	}

	return u.opts.BinaryName
}

// repository resolves the release repository for the binary from the
// settings file or the built-in family table. Settings win, so a family
// entry can also repoint a built-in binary.
func (u *runner) repository(binaryName string) (string, error) {
	if repository, ok := u.cfg.Binaries[binaryName]; ok {
		return repository, nil
	}

	if repository, ok := builtinFamily[binaryName]; ok {
		return repository, nil
	}

	return "", fmt.Errorf("%s (known: %s): %w",
		binaryName, strings.Join(u.knownBinaries(), ", "), errUnknownBinary)
}

// knownBinaries lists every configured family binary, sorted for stable
// error messages.
func (u *runner) knownBinaries() []string {
	names := make([]string, 0, len(builtinFamily)+len(u.cfg.Binaries))
	for name := range builtinFamily {
		names = append(names, name)
	}

	for name := range u.cfg.Binaries {
		if _, ok := builtinFamily[name]; !ok {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// setState advances the pipeline state machine and traces the transition.
func (u *runner) setState(ctx context.Context, next pipelineState) {
	logger.DebugKV(ctx, "Pipeline state", "from", string(u.state), "to", string(next))
	u.state = next
}
