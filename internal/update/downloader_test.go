package update

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestNewHTTPDownloader(t *testing.T) {
	downloader := NewHTTPDownloader()

	if downloader.client == nil {
		t.Error("HTTP client should not be nil")
	}
	if downloader.client.Timeout != 0 {
		t.Errorf("client timeout = %v, want none", downloader.client.Timeout)
	}
}

func TestWithProgress_IgnoresNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	downloader := NewHTTPDownloader().WithProgress(&buf)

	if downloader.progress != nil {
		t.Error("progress should only be enabled for terminals")
	}
}

// assertNoTempFiles fails if dir holds anything.
func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, e := range entries {
		t.Errorf("unexpected file left in install root: %s", e.Name())
	}
}

func TestHTTPDownloaderDownload_Success(t *testing.T) {
	testContent := []byte("test archive content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("User-Agent = %q, want %q", ua, userAgent)
		}
		_, _ = w.Write(testContent)
	}))
	defer server.Close()

	root := t.TempDir()
	rel := &Release{AssetURL: server.URL, Size: int64(len(testContent)), SHA256: sha256Hex(testContent)}

	tmpPath, err := NewHTTPDownloader().Download(context.Background(), rel, root)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if filepath.Dir(tmpPath) != root {
		t.Errorf("temp file %s should be inside install root %s", tmpPath, root)
	}

	content, err := os.ReadFile(tmpPath)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(content, testContent) {
		t.Errorf("Content mismatch: got %s, want %s", content, testContent)
	}
}

func TestHTTPDownloaderDownload_UnknownSize(t *testing.T) {
	testContent := []byte("streamed without a length")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(testContent[:5])
		w.(http.Flusher).Flush()
		_, _ = w.Write(testContent[5:])
	}))
	defer server.Close()

	tmpPath, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL}, t.TempDir())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	content, _ := os.ReadFile(tmpPath)
	if !bytes.Equal(content, testContent) {
		t.Errorf("Content mismatch: got %s", content)
	}
}

func TestHTTPDownloaderDownload_TruncatedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise 100 bytes, deliver 40, then hang up.
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write(bytes.Repeat([]byte("x"), 40))
	}))
	defer server.Close()

	root := t.TempDir()
	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL, Size: 100}, root)
	if !errors.Is(err, ErrUpdateCheckFailed) || !errors.Is(err, ErrIncompleteDownload) {
		t.Fatalf("Download() error = %v, want ErrUpdateCheckFailed and ErrIncompleteDownload", err)
	}
	assertNoTempFiles(t, root)
}

func TestHTTPDownloaderDownload_ShorterThanAdvertised(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No Content-Length: the advertised release size is the only check.
		_, _ = w.Write(bytes.Repeat([]byte("x"), 10))
		w.(http.Flusher).Flush()
		_, _ = w.Write(bytes.Repeat([]byte("x"), 30))
	}))
	defer server.Close()

	root := t.TempDir()
	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL, Size: 100}, root)
	if !errors.Is(err, ErrIncompleteDownload) {
		t.Fatalf("Download() error = %v, want ErrIncompleteDownload", err)
	}
	assertNoTempFiles(t, root)
}

func TestHTTPDownloaderDownload_ContentLengthDisagrees(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 50)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer server.Close()

	root := t.TempDir()
	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL, Size: 100}, root)
	if !errors.Is(err, ErrIncompleteDownload) {
		t.Fatalf("Download() error = %v, want ErrIncompleteDownload", err)
	}
	assertNoTempFiles(t, root)
}

func TestHTTPDownloaderDownload_ChecksumMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tampered"))
	}))
	defer server.Close()

	root := t.TempDir()
	rel := &Release{AssetURL: server.URL, SHA256: sha256Hex([]byte("original"))}
	_, err := NewHTTPDownloader().Download(context.Background(), rel, root)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Download() error = %v, want ErrChecksumMismatch", err)
	}
	assertNoTempFiles(t, root)
}

func TestHTTPDownloaderDownload_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	root := t.TempDir()
	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL}, root)
	if !errors.Is(err, ErrUpdateCheckFailed) {
		t.Errorf("Download() error = %v, want ErrUpdateCheckFailed", err)
	}
	assertNoTempFiles(t, root)
}

func TestHTTPDownloaderDownload_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: url}, t.TempDir())
	if !errors.Is(err, ErrUpdateCheckFailed) {
		t.Errorf("Download() error = %v, want ErrUpdateCheckFailed", err)
	}
}

func TestHTTPDownloaderDownload_InvalidDestination(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("test"))
	}))
	defer server.Close()

	// A regular file where the install root directory should be.
	parent := t.TempDir()
	blocker := filepath.Join(parent, "root")
	if err := os.WriteFile(blocker, []byte("not a dir"), 0o644); err != nil {
		t.Fatalf("Failed to create blocker file: %v", err)
	}

	_, err := NewHTTPDownloader().Download(context.Background(), &Release{AssetURL: server.URL}, blocker)
	if !errors.Is(err, ErrUpdateWriteFailed) {
		t.Errorf("Download() error = %v, want ErrUpdateWriteFailed", err)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{27 * 1024 * 1024, "27.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProgressReader(t *testing.T) {
	var out bytes.Buffer
	src := bytes.NewReader(bytes.Repeat([]byte("x"), 1024))
	p := &progressReader{r: src, total: 1024, out: &out}

	buf := make([]byte, 4096)
	for {
		_, err := p.Read(buf)
		if err != nil {
			break
		}
	}
	if !bytes.Contains(out.Bytes(), []byte("100.0%")) {
		t.Errorf("progress output = %q, want final 100.0%%", out.String())
	}
}
