package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidpub/internal/metadata"
	"vidpub/internal/publish"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var (
		videoID     string
		description string
		changeMode  string
		thumbDir    string
		watermark   string
		thumbSecond int
		playlistID  string
		pageSize    int
		ffmpegBin   string
		ffprobeBin  string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Amend entries that are already published",
		Long: "Update one entry, or every uploaded entry with --video-id uploaded.\n" +
			"Each step runs per entry; a failing step is reported and the rest continue.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}
			changed := cmd.Flags().Changed

			modeValue := cfg.Update.ChangeDescription
			if changed("change-desc") {
				modeValue = changeMode
			}
			mode, err := metadata.ParseMergeMode(modeValue)
			if err != nil {
				return err
			}

			req := publish.UpdateRequest{
				Target:          strings.TrimSpace(videoID),
				DescriptionFile: strings.TrimSpace(description),
				ChangeMode:      mode,
				ThumbnailDir:    strings.TrimSpace(thumbDir),
				Watermark:       cfg.Upload.Watermark,
				ThumbSecond:     cfg.Upload.ThumbSecond,
				PlaylistID:      strings.TrimSpace(playlistID),
				PageSize:        cfg.Catalog.PageSize,
				FFmpeg:          cfg.Upload.FFmpegBinary,
				FFprobe:         cfg.Upload.FFprobeBinary,
			}
			if changed("thumbnail-watermark") {
				req.Watermark = strings.TrimSpace(watermark)
			}
			if changed("thumb-second") {
				req.ThumbSecond = thumbSecond
			}
			if changed("page-size") {
				req.PageSize = pageSize
			}
			if changed("ffmpeg-bin") {
				req.FFmpeg = strings.TrimSpace(ffmpegBin)
			}
			if changed("ffprobe-bin") {
				req.FFprobe = strings.TrimSpace(ffprobeBin)
			}
			if req.Target == "" {
				return errors.New("--video-id is required")
			}

			pub, cleanup, err := ctx.publisher(true)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := pub.Update(cmd.Context(), req)
			if jsonOutput {
				if jsonErr := writeJSON(cmd, result); jsonErr != nil && err == nil {
					err = jsonErr
				}
				return err
			}
			if len(result.Entries) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderUpdateTable(result.Entries, req))
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&videoID, "video-id", "", "Entry id, or \"uploaded\" for every uploaded entry")
	f.StringVar(&description, "description", "", "File with the description text to merge")
	f.StringVar(&changeMode, "change-desc", "", "How the text is merged: append, replace or prepend")
	f.StringVar(&thumbDir, "generate-thumbnail", "", "Directory with the source videos; regenerates and attaches thumbnails")
	f.StringVar(&watermark, "thumbnail-watermark", "", "Overlay image placed on generated thumbnails")
	f.IntVar(&thumbSecond, "thumb-second", 0, "Second of the video used as thumbnail background")
	f.StringVar(&playlistID, "add-to-playlist", "", "Add the entries to this playlist")
	f.IntVar(&pageSize, "page-size", 0, "Items requested per page when resolving \"uploaded\"")
	f.StringVar(&ffmpegBin, "ffmpeg-bin", "", "Path to the ffmpeg binary")
	f.StringVar(&ffprobeBin, "ffprobe-bin", "", "Path to the ffprobe binary")
	f.BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	_ = cmd.MarkFlagRequired("video-id")

	return cmd
}

func renderUpdateTable(entries []publish.EntryResult, req publish.UpdateRequest) string {
	step := func(requested, done bool) string {
		if !requested {
			return "-"
		}
		return yesNo(done)
	}
	table := make([][]string, 0, len(entries))
	for _, e := range entries {
		table = append(table, []string{
			e.VideoID,
			e.Title,
			step(req.DescriptionFile != "", e.DescriptionUpdated),
			step(req.ThumbnailDir != "", e.Thumbnail != ""),
			step(req.PlaylistID != "", e.PlaylistAdded),
			strings.Join(e.Errors, "; "),
		})
	}
	return renderTable(
		[]string{"Video ID", "Title", "Description", "Thumbnail", "Playlist", "Errors"},
		table,
		nil,
	)
}
