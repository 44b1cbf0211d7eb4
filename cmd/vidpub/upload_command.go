package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vidpub/internal/config"
	"vidpub/internal/metadata"
	"vidpub/internal/publish"
	"vidpub/internal/schedule"
)

type uploadFlags struct {
	file             string
	description      string
	descriptionFile  string
	title            string
	thumbnail        string
	watermark        string
	thumbSecond      int
	publishAt        schedule.ModeValue
	publishTime      string
	episode          int
	playlistID       string
	keywords         string
	privacy          string
	category         string
	firstEpisodeDate string
	dryRun           bool
	ffmpeg           string
	ffprobe          string
	jsonOutput       bool
}

func newUploadCommand(ctx *commandContext) *cobra.Command {
	flags := &uploadFlags{episode: -1}

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a video with derived metadata, schedule and thumbnail",
		Long: "Upload a video file. The title defaults to the file name and the episode\n" +
			"number to the first two hex digits of the title. Flags left unset fall back\n" +
			"to the [upload] section of the configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}
			req, err := flags.request(cmd, cfg)
			if err != nil {
				return err
			}

			pub, cleanup, err := ctx.publisher(!req.DryRun)
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := pub.Upload(cmd.Context(), req)
			if flags.jsonOutput {
				if jsonErr := writeJSON(cmd, result); jsonErr != nil && err == nil {
					err = jsonErr
				}
				return err
			}

			out := cmd.OutOrStdout()
			if req.DryRun {
				fmt.Fprintln(out, renderPairs(result.Report.Lines()))
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Uploaded %q as %s\n", result.Report.DisplayTitle, result.VideoID)
			fmt.Fprintf(out, "Publish at: %s\n", result.Report.PublishAt)
			fmt.Fprintf(out, "Thumbnail: %s (attached: %s)\n", result.Thumbnail, yesNo(result.ThumbnailAttached))
			if req.PlaylistID != "" {
				fmt.Fprintf(out, "Playlist %s: %s\n", req.PlaylistID, yesNo(result.PlaylistAdded))
			}
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", warning)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.file, "file", "f", "", "Video file to upload")
	f.StringVarP(&flags.description, "description", "d", "", "Description of the video")
	f.StringVar(&flags.descriptionFile, "description-file", "", "Read the description from a file")
	f.StringVarP(&flags.title, "title", "t", "", "Title (defaults to the file name)")
	f.StringVar(&flags.thumbnail, "thumbnail", "", "Existing thumbnail image (otherwise generated from the video)")
	f.StringVar(&flags.watermark, "thumbnail-watermark", "", "Overlay image placed on generated thumbnails")
	f.IntVar(&flags.thumbSecond, "thumb-second", 0, "Second of the video used as thumbnail background")
	f.VarP(&flags.publishAt, "publish-at", "p", "Publish date method; see `vidpub list --publish-methods`")
	f.StringVarP(&flags.publishTime, "publish-time", "T", "", "Publish time of day (HH:MM:SS)")
	f.IntVarP(&flags.episode, "episode-nr", "e", -1, "Episode number when the title carries none")
	f.StringVar(&flags.playlistID, "playlist-id", "", "Add the video to this playlist")
	f.StringVar(&flags.keywords, "keywords", "", "Comma separated keyword list")
	f.StringVar(&flags.privacy, "privacy-status", "", "Privacy status: public, private or unlisted")
	f.StringVar(&flags.category, "category", "", "Category: people, comedy or science")
	f.StringVar(&flags.firstEpisodeDate, "first-episode-date", "", "Date of the first episode (YYYY-MM-DD)")
	f.BoolVar(&flags.dryRun, "pretend", false, "Show the derived metadata and exit without uploading")
	f.StringVar(&flags.ffmpeg, "ffmpeg-bin", "", "Path to the ffmpeg binary")
	f.StringVar(&flags.ffprobe, "ffprobe-bin", "", "Path to the ffprobe binary")
	f.BoolVar(&flags.jsonOutput, "json", false, "Output the result as JSON")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("description", "description-file")

	return cmd
}

// request merges flags over configuration defaults and parses every value.
func (f *uploadFlags) request(cmd *cobra.Command, cfg *config.Config) (publish.UploadRequest, error) {
	changed := cmd.Flags().Changed
	pick := func(flag, value, fallback string) string {
		if changed(flag) {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	req := publish.UploadRequest{
		File:             f.file,
		Description:      f.description,
		Title:            strings.TrimSpace(f.title),
		Thumbnail:        strings.TrimSpace(f.thumbnail),
		Watermark:        pick("thumbnail-watermark", f.watermark, cfg.Upload.Watermark),
		ThumbSecond:      cfg.Upload.ThumbSecond,
		FirstEpisodeDate: pick("first-episode-date", f.firstEpisodeDate, cfg.Upload.FirstEpisodeDate),
		PlaylistID:       pick("playlist-id", f.playlistID, cfg.Upload.PlaylistID),
		Keywords:         cfg.Upload.Keywords,
		DryRun:           f.dryRun,
		FFmpeg:           pick("ffmpeg-bin", f.ffmpeg, cfg.Upload.FFmpegBinary),
		FFprobe:          pick("ffprobe-bin", f.ffprobe, cfg.Upload.FFprobeBinary),
	}
	if changed("keywords") {
		req.Keywords = f.keywords
	}
	if changed("thumb-second") {
		if f.thumbSecond < 0 {
			return req, fmt.Errorf("--thumb-second must not be negative")
		}
		req.ThumbSecond = f.thumbSecond
	}
	if f.descriptionFile != "" {
		data, err := os.ReadFile(f.descriptionFile)
		if err != nil {
			return req, fmt.Errorf("read description file: %w", err)
		}
		req.Description = string(data)
	}
	if changed("episode-nr") {
		if f.episode < 0 || f.episode > 255 {
			return req, fmt.Errorf("--episode-nr must be between 0 and 255")
		}
		ep := uint8(f.episode)
		req.Episode = &ep
	}

	mode := f.publishAt.Mode
	if mode == nil {
		parsed, err := schedule.ParseMode(cfg.Upload.PublishAt)
		if err != nil {
			return req, err
		}
		mode = parsed
	}
	req.PublishAt = mode

	clock, err := schedule.ParseClock(pick("publish-time", f.publishTime, cfg.Upload.PublishTime))
	if err != nil {
		return req, err
	}
	req.PublishTime = clock

	privacy, err := metadata.ParsePrivacy(pick("privacy-status", f.privacy, cfg.Upload.Privacy))
	if err != nil {
		return req, err
	}
	req.Privacy = privacy

	category, err := metadata.ParseCategory(pick("category", f.category, cfg.Upload.Category))
	if err != nil {
		return req, err
	}
	req.Category = category

	return req, nil
}
