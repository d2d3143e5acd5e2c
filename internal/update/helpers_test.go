package update

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

// makeJar builds a minimal jar archive.
func makeJar(t *testing.T, marker string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		t.Fatalf("Failed to create jar entry: %v", err)
	}
	if _, err := w.Write([]byte("Manifest-Version: 1.0\nImplementation-Version: " + marker + "\n")); err != nil {
		t.Fatalf("Failed to write jar entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close jar: %v", err)
	}
	return buf.Bytes()
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
