package preflight

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"vidpub/internal/services/catalog"
)

const catalogTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFileReadable verifies that path is a regular file the process can read.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckCredentials reports whether an access token is configured and unexpired.
func CheckCredentials(tokens TokenSource) Result {
	const name = "Access token"
	if err := tokens.Validate(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "available"}
}

// CheckCatalog resolves the account's uploads container to prove the
// endpoint is reachable and the token is accepted.
func CheckCatalog(ctx context.Context, probe CatalogProbe) Result {
	const name = "Catalog"

	checkCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	uploads, err := probe.UploadsPlaylist(checkCtx)
	if err == nil {
		return Result{Name: name, Passed: true, Detail: "reachable (uploads " + uploads + ")"}
	}
	switch code := catalog.StatusCode(err); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return Result{Name: name, Detail: fmt.Sprintf("auth failed (%d)", code)}
	case errors.Is(err, context.DeadlineExceeded):
		return Result{Name: name, Detail: "timed out"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("check failed (%v)", err)}
	}
}
