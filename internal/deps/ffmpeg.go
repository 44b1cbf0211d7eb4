package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vidpub/internal/config"
)

const versionTimeout = 5 * time.Second

// Requirements lists the binaries the upload flow may execute.
func Requirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{{
		Name:        "FFmpeg",
		Command:     cfg.Upload.FFmpegBinary,
		Description: "Extracts thumbnail backgrounds from videos",
	}}
	if cfg.Upload.FFprobeBinary != "" {
		reqs = append(reqs, Requirement{
			Name:        "FFprobe",
			Command:     cfg.Upload.FFprobeBinary,
			Description: "Checks the screenshot second against the video length",
			Optional:    true,
		})
	}
	return reqs
}

// CheckWithVersion runs CheckBinaries and records the first line of
// "<command> -version" as the detail of every available binary.
func CheckWithVersion(ctx context.Context, requirements []Requirement) []Status {
	results := CheckBinaries(requirements)
	for i := range results {
		if !results[i].Available {
			continue
		}
		version, err := firstVersionLine(ctx, results[i].Command)
		if err != nil {
			results[i].Available = false
			results[i].Detail = err.Error()
			continue
		}
		results[i].Detail = version
	}
	return results
}

func firstVersionLine(ctx context.Context, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, command, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s -version: %w", command, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", nil
}
