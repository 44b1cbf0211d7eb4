package publish

import (
	"context"
	"fmt"
	"strings"

	"vidpub/internal/services"
	"vidpub/internal/services/catalog"
)

// ListRequest selects what to list. Uploaded wins over PlaylistID.
type ListRequest struct {
	PlaylistID string
	Uploaded   bool
	PageSize   int
}

// List returns the items of the selected playlist in server order.
func (p *Publisher) List(ctx context.Context, req ListRequest) ([]catalog.PlaylistItem, error) {
	if p.catalog == nil {
		return nil, ErrNoCatalog
	}
	playlist := strings.TrimSpace(req.PlaylistID)
	if req.Uploaded {
		uploads, err := p.catalog.UploadsPlaylist(services.WithStep(ctx, "resolve"))
		if err != nil {
			return nil, fmt.Errorf("resolve uploads container: %w", err)
		}
		playlist = uploads
	}
	if playlist == "" {
		return nil, services.Wrap(services.ErrValidation, "publish", "list", "choose a playlist id or the uploaded listing", nil)
	}
	return p.catalog.List(services.WithStep(ctx, "list"), playlist, req.PageSize)
}

// Popular returns the catalog's most popular entries.
func (p *Publisher) Popular(ctx context.Context, limit int) ([]catalog.Video, error) {
	if p.catalog == nil {
		return nil, ErrNoCatalog
	}
	return p.catalog.Popular(services.WithStep(ctx, "popular"), limit)
}
