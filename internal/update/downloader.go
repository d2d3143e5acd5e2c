package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/adamancini/tlaplus-cli/internal/fsutil"
)

const userAgent = "tlaplus-cli"

// HTTPDownloader downloads release archives over HTTP
type HTTPDownloader struct {
	client   *http.Client
	progress io.Writer
}

// NewHTTPDownloader creates a new HTTP downloader. There is no overall
// timeout; the user interrupts a stalled download.
func NewHTTPDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{},
	}
}

// WithProgress reports download progress to w when w is a terminal
func (d *HTTPDownloader) WithProgress(w io.Writer) *HTTPDownloader {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		d.progress = w
	}
	return d
}

// Download fetches rel.AssetURL into a temp file inside dir. The byte count
// must match both the advertised asset size and the Content-Length, and the
// digest must match when one is advertised.
func (d *HTTPDownloader) Download(ctx context.Context, rel *Release, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rel.AssetURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrUpdateCheckFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: download %s: %w", ErrUpdateCheckFailed, rel.AssetURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: download %s: unexpected status %s", ErrUpdateCheckFailed, rel.AssetURL, resp.Status)
	}

	expected := rel.Size
	if expected > 0 && resp.ContentLength >= 0 && resp.ContentLength != expected {
		return "", fmt.Errorf("%w: %w: server sends %d bytes, release advertises %d",
			ErrUpdateCheckFailed, ErrIncompleteDownload, resp.ContentLength, expected)
	}
	if expected <= 0 {
		expected = resp.ContentLength
	}

	tmp, err := fsutil.CreateTempIn(dir, "."+AssetName+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpdateWriteFailed, err)
	}
	tmpPath := tmp.Name()
	keep := false
	defer func() {
		if !keep {
			_ = os.Remove(tmpPath)
		}
	}()

	hash := sha256.New()
	dst := &trackingWriter{w: io.MultiWriter(tmp, hash)}
	var src io.Reader = resp.Body
	if d.progress != nil {
		src = &progressReader{r: resp.Body, total: expected, out: d.progress}
	}

	n, copyErr := io.Copy(dst, src)
	closeErr := tmp.Close()
	if d.progress != nil {
		fmt.Fprintln(d.progress)
	}

	switch {
	case dst.err != nil:
		return "", fmt.Errorf("%w: write %s: %w", ErrUpdateWriteFailed, tmpPath, dst.err)
	case copyErr != nil:
		return "", fmt.Errorf("%w: %w: read body after %d bytes: %w", ErrUpdateCheckFailed, ErrIncompleteDownload, n, copyErr)
	case closeErr != nil:
		return "", fmt.Errorf("%w: close %s: %w", ErrUpdateWriteFailed, tmpPath, closeErr)
	}

	if expected >= 0 && n != expected {
		return "", fmt.Errorf("%w: %w: got %d of %d bytes", ErrUpdateCheckFailed, ErrIncompleteDownload, n, expected)
	}

	if rel.SHA256 != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); got != rel.SHA256 {
			return "", fmt.Errorf("%w: %w: got %s, want %s", ErrUpdateCheckFailed, ErrChecksumMismatch, got, rel.SHA256)
		}
	}

	keep = true
	return tmpPath, nil
}

// trackingWriter remembers write errors so disk failures can be told apart
// from network failures after io.Copy returns.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}

type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	last  int64
	out   io.Writer
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.read-p.last >= 256*1024 || errors.Is(err, io.EOF) {
		p.last = p.read
		if p.total > 0 {
			fmt.Fprintf(p.out, "\r  %5.1f%% (%s / %s)", float64(p.read)*100/float64(p.total), formatBytes(p.read), formatBytes(p.total))
		} else {
			fmt.Fprintf(p.out, "\r  %s", formatBytes(p.read))
		}
	}
	return n, err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
