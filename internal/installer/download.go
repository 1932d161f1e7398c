package installer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/extinstall/internal/branding"
	"github.com/agentx-labs/extinstall/internal/extension"
)

// Downloader fetches dependency artifacts over HTTP.
type Downloader struct {
	httpClient *http.Client
	mirror     string
	progress   io.Writer
	userAgent  string
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.httpClient = c
	}
}

// WithMirror rewrites every download URL to <mirror>/<file name>.
func WithMirror(mirror string) DownloaderOption {
	return func(d *Downloader) {
		d.mirror = mirror
	}
}

// WithProgress reports download progress to w.
func WithProgress(w io.Writer) DownloaderOption {
	return func(d *Downloader) {
		d.progress = w
	}
}

// NewDownloader creates a Downloader with the given options.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		httpClient: http.DefaultClient,
		userAgent:  branding.UserAgent(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// URL returns the address dep is downloaded from.
func (d *Downloader) URL(dep extension.DependencyConfig) string {
	if d.mirror != "" {
		return strings.TrimRight(d.mirror, "/") + "/" + dep.FileName()
	}
	return dep.Download.URL
}

// Fetch downloads dep into destDir and returns the path of the file. The
// artifact is written to a temporary file first and renamed once complete
// and, when the dependency declares a checksum, verified.
func (d *Downloader) Fetch(ctx context.Context, dep extension.DependencyConfig, destDir string) (string, error) {
	url := d.URL(dep)
	if url == "" {
		return "", fmt.Errorf("dependency %s has no download URL", dep.Name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", dep.FileName(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: server returned status %d", dep.FileName(), resp.StatusCode)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	tmp, err := os.CreateTemp(destDir, "."+dep.FileName()+".*.part")
	if err != nil {
		return "", fmt.Errorf("creating download file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	h := sha256.New()
	w := io.MultiWriter(tmp, h)
	if d.progress != nil {
		w = io.MultiWriter(w, &progressWriter{out: d.progress, name: dep.FileName(), total: resp.ContentLength, last: -1})
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("reading download stream: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing download: %w", err)
	}
	if d.progress != nil && resp.ContentLength > 0 {
		fmt.Fprintln(d.progress)
	}

	if want := dep.Download.Checksum; want != "" {
		got := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(got, want) {
			return "", fmt.Errorf("checksum mismatch for %s: expected %s, got %s", dep.FileName(), want, got)
		}
	}

	destPath := filepath.Join(destDir, dep.FileName())
	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("moving download into place: %w", err)
	}
	return destPath, nil
}

// progressWriter prints a percentage each time it changes.
type progressWriter struct {
	out        io.Writer
	name       string
	total      int64
	downloaded int64
	last       int
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.downloaded += int64(len(b))
	if p.total > 0 {
		percent := int(p.downloaded * 100 / p.total)
		if percent != p.last {
			fmt.Fprintf(p.out, "\rDownloading %s... %d%%", p.name, percent)
			p.last = percent
		}
	}
	return len(b), nil
}
