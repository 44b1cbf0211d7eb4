package preflight

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"vidpub/internal/services/catalog"
	"vidpub/internal/testsupport"
)

type tokenStub struct{ err error }

func (s tokenStub) Validate() error { return s.err }

type probeStub struct {
	uploads string
	err     error
}

func (s probeStub) UploadsPlaylist(context.Context) (string, error) { return s.uploads, s.err }

func TestCheckDirectoryAccess_OK(t *testing.T) {
	t.Parallel()
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	t.Parallel()
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	t.Parallel()
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	f := filepath.Join(dir, "logos.png")
	testsupport.WritePNG(t, f, 8, 8)

	if result := CheckFileReadable("Watermark", f); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckFileReadable("Watermark", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckFileReadable("Watermark", filepath.Join(dir, "missing.png")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if result := CheckCatalog(ctx, probeStub{uploads: "UU1"}); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	denied := CheckCatalog(ctx, probeStub{err: &catalog.TransportError{StatusCode: http.StatusUnauthorized}})
	if denied.Passed || denied.Detail != "auth failed (401)" {
		t.Fatalf("unexpected result %+v", denied)
	}
	broken := CheckCatalog(ctx, probeStub{err: errors.New("dial tcp: refused")})
	if broken.Passed {
		t.Fatal("expected failure")
	}
}

func TestRunAll(t *testing.T) {
	t.Parallel()
	cfg := testsupport.NewConfig(t, testsupport.WithWatermark())
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg, tokenStub{err: errors.New("no token")}, nil)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %+v", results)
	}
	if !results[0].Passed || !results[1].Passed {
		t.Fatalf("path checks failed: %+v", results)
	}
	if results[2].Passed || results[2].Detail != "no token" {
		t.Fatalf("credential check = %+v", results[2])
	}

	if got := RunAll(context.Background(), nil, nil, nil); got != nil {
		t.Fatalf("expected nil for nil config, got %+v", got)
	}
}
