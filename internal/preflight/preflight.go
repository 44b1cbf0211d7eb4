package preflight

import (
	"context"

	"vidpub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// TokenSource reports whether a usable access token exists.
type TokenSource interface {
	Validate() error
}

// CatalogProbe performs one cheap authenticated catalog request.
type CatalogProbe interface {
	UploadsPlaylist(ctx context.Context) (string, error)
}

// RunAll executes the preflight checks for cfg. tokens and probe may be nil
// to skip the credential and catalog checks.
func RunAll(ctx context.Context, cfg *config.Config, tokens TokenSource, probe CatalogProbe) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("Log directory", cfg.Paths.LogDir)}

	if cfg.Upload.Watermark != "" {
		results = append(results, CheckFileReadable("Watermark", cfg.Upload.Watermark))
	}

	if tokens != nil {
		results = append(results, CheckCredentials(tokens))
	}

	if probe != nil {
		results = append(results, CheckCatalog(ctx, probe))
	}

	return results
}
