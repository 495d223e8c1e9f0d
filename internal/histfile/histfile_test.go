package histfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sample = "#1700000000\nmake build\n#1700000001\nmake test\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"plain", "history", []byte(sample)},
		{"gzip by extension", "history.gz", gzipped(t, sample)},
		{"gzip by magic", "history.bak", gzipped(t, sample)},
		{"zstd by extension", "history.zst", zstded(t, sample)},
		{"zstd by magic", "history.old", zstded(t, sample)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, tt.data, 0o600); err != nil {
				t.Fatal(err)
			}

			got, err := Read(path)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got != sample {
				t.Errorf("Read() = %q, want %q", got, sample)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Read(filepath.Join(dir, "missing")); err == nil {
		t.Error("Read() of a missing file expected error")
	}

	corrupt := filepath.Join(dir, "history.gz")
	if err := os.WriteFile(corrupt, []byte("not gzip"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(corrupt); err == nil {
		t.Error("Read() of a corrupt gzip file expected error")
	}
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		path string
		data []byte
		want Compression
	}{
		{"h.GZ", nil, CompressionGzip},
		{"h.zstd", nil, CompressionZstd},
		{"h", []byte{0x1f, 0x8b, 0x08}, CompressionGzip},
		{"h", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, CompressionZstd},
		{"h", []byte("#1700000000\n"), CompressionNone},
		{"h", nil, CompressionNone},
	}

	for _, tt := range tests {
		if got := DetectCompression(tt.path, tt.data); got != tt.want {
			t.Errorf("DetectCompression(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrunk_history")

	if err := Write(path, []byte(sample)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != sample {
		t.Errorf("content = %q, want %q", got, sample)
	}
}

func TestWriteRestrictsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shrunk_history")
	if err := os.WriteFile(path, []byte("#1600000000\nan old command much longer than anything written after it\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Write(path, []byte(sample)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("mode = %o, want 600", perm)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != sample {
		t.Errorf("content = %q, want %q", got, sample)
	}
}
