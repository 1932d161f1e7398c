package installer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentx-labs/extinstall/internal/extension"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Installer installs and removes extension dependencies in a Layout.
type Installer struct {
	layout      Layout
	downloader  *Downloader
	concurrency int
	logger      *slog.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithDownloader sets the Downloader used for auto-downloadable dependencies.
func WithDownloader(d *Downloader) Option {
	return func(i *Installer) {
		i.downloader = d
	}
}

// WithConcurrency bounds the number of parallel downloads.
func WithConcurrency(n int) Option {
	return func(i *Installer) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(i *Installer) {
		i.logger = l
	}
}

// New creates an Installer for layout.
func New(layout Layout, opts ...Option) *Installer {
	i := &Installer{
		layout:      layout,
		concurrency: 1,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.downloader == nil {
		i.downloader = NewDownloader()
	}
	return i
}

// Result captures the outcome of an install.
type Result struct {
	Downloaded []string                     // dependency names, in declaration order
	Failed     []string                     // dependency names, in declaration order
	Skipped    []string                     // already installed
	Manual     []extension.DependencyConfig // need user action
}

// Install downloads every auto-downloadable dependency of cfg that is not
// yet installed and copies it into each target directory. Manual
// dependencies that are missing are returned in Result.Manual. Download
// failures do not stop other downloads; they are combined into the returned
// error and listed in Result.Failed.
func (i *Installer) Install(ctx context.Context, cfg *extension.ExtensionConfig) (*Result, error) {
	plan, err := BuildPlan(cfg, i.layout)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, st := range plan.Skip {
		result.Skipped = append(result.Skipped, st.Dependency.Name)
	}
	for _, st := range plan.Manual {
		result.Manual = append(result.Manual, st.Dependency)
	}

	staging, err := os.MkdirTemp("", "extinstall-")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	var (
		mu   sync.Mutex
		errs error
	)
	ok := make([]bool, len(plan.Download))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for n, st := range plan.Download {
		g.Go(func() error {
			logger := i.logger.With("extension", plan.Extension, "dependency", st.Dependency.Name)
			if err := i.installOne(gctx, st, filepath.Join(staging, fmt.Sprint(n))); err != nil {
				logger.Warn("dependency install failed", "error", err)
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("installing %s: %w", st.Dependency.Name, err))
				mu.Unlock()
				return nil
			}
			logger.Debug("dependency installed", "dirs", st.Dirs)
			ok[n] = true
			return nil
		})
	}
	_ = g.Wait()

	for n, st := range plan.Download {
		if ok[n] {
			result.Downloaded = append(result.Downloaded, st.Dependency.Name)
		} else {
			result.Failed = append(result.Failed, st.Dependency.Name)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, multierr.Append(err, errs)
	}
	return result, errs
}

// installOne downloads one dependency into staging and places it in all of
// its target directories, replacing older versions found there.
func (i *Installer) installOne(ctx context.Context, st DependencyStatus, staging string) error {
	src, err := i.downloader.Fetch(ctx, st.Dependency, staging)
	if err != nil {
		return err
	}

	m, err := newMatcher(st.Dependency.LookupRegex, st.Dependency.FileName())
	if err != nil {
		return err
	}

	for _, dir := range st.Dirs {
		if err := ctx.Err(); err != nil {
			return err
		}
		stale, err := m.find(dir)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.Base(src))
		for _, f := range stale {
			if f == dst {
				continue
			}
			if err := os.Remove(f); err != nil {
				return fmt.Errorf("removing old artifact %s: %w", f, err)
			}
		}
		if err := copyFile(src, dst); err != nil {
			return err
		}
	}
	return nil
}

// Uninstall removes the extension's own artifact and its dependencies from
// all target directories. Dependencies that another installed extension in
// others also declares (by name) are kept. It returns the removed paths.
func (i *Installer) Uninstall(ctx context.Context, cfg *extension.ExtensionConfig, others *extension.Index) ([]string, error) {
	shared, err := i.sharedDependencies(cfg, others)
	if err != nil {
		return nil, err
	}

	var targets []extension.DependencyConfig
	if id, ok := cfg.Identifier(); ok && id.LookupRegex != "" {
		targets = append(targets, extension.DependencyConfig{Name: id.ID, Usages: id.Usages, LookupRegex: id.LookupRegex})
	}
	for _, dep := range cfg.Dependencies() {
		if shared[dep.Name] {
			i.logger.Info("keeping shared dependency", "extension", cfg.Name(), "dependency", dep.Name)
			continue
		}
		targets = append(targets, dep)
	}

	var removed []string
	var errs error
	for _, dep := range targets {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		m, err := newMatcher(dep.LookupRegex, dep.FileName())
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		for _, dir := range i.layout.Dirs(dep.Usages) {
			found, err := m.find(dir)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			for _, f := range found {
				if err := os.Remove(f); err != nil {
					errs = multierr.Append(errs, fmt.Errorf("removing %s: %w", f, err))
					continue
				}
				removed = append(removed, f)
			}
		}
	}
	return removed, errs
}

// sharedDependencies returns the names of cfg's dependencies that some other
// entry of idx declares and appears to be installed. cfg itself is recognized
// by identity, not by name. An extension counts
// as installed when its own artifact is present or, without an artifact
// regex, when any dependency it does not share with cfg is present.
func (i *Installer) sharedDependencies(cfg *extension.ExtensionConfig, idx *extension.Index) (map[string]bool, error) {
	shared := make(map[string]bool)
	if idx == nil {
		return shared, nil
	}

	mine := make(map[string]bool)
	for _, dep := range cfg.Dependencies() {
		mine[dep.Name] = true
	}

	for _, id := range idx.IDs() {
		// Entries are distinct extensions even when their names collide.
		other, _ := idx.Get(id)
		if other == cfg {
			continue
		}

		var common []string
		for _, dep := range other.Dependencies() {
			if mine[dep.Name] {
				common = append(common, dep.Name)
			}
		}
		if len(common) == 0 {
			continue
		}

		installed, err := i.isInstalled(other, mine)
		if err != nil {
			return nil, err
		}
		if installed {
			for _, name := range common {
				shared[name] = true
			}
		}
	}
	return shared, nil
}

func (i *Installer) isInstalled(cfg *extension.ExtensionConfig, ignore map[string]bool) (bool, error) {
	es, err := CheckExtension(cfg, i.layout)
	if err != nil {
		return false, err
	}
	if es.Artifact != StatusUnknown {
		return es.Artifact != StatusNotInstalled, nil
	}
	for _, st := range es.Dependencies {
		if ignore[st.Dependency.Name] || len(st.Dirs) == 0 {
			continue
		}
		if st.Status != StatusNotInstalled {
			return true, nil
		}
	}
	return false, nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}
