package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vidpub/internal/publish"
	"vidpub/internal/schedule"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		publishMethods bool
		uploaded       bool
		playlistID     string
		top            int
		pageSize       int
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List playlist entries, popular videos or scheduling methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if publishMethods {
				methods := schedule.Methods()
				if jsonOutput {
					return writeJSON(cmd, methods)
				}
				rows := make([][]string, 0, len(methods))
				for _, m := range methods {
					rows = append(rows, []string{m.Key, m.Example, m.Summary})
				}
				fmt.Fprintln(out, renderTable([]string{"Method", "Example", "Description"}, rows, nil))
				return nil
			}
			if !uploaded && playlistID == "" && top <= 0 {
				return errors.New("choose --uploaded, --playlist, --top or --publish-methods")
			}

			cfg := ctx.configValue()
			if cfg == nil {
				return errors.New("configuration not loaded")
			}
			if !cmd.Flags().Changed("page-size") {
				pageSize = cfg.Catalog.PageSize
			}

			pub, cleanup, err := ctx.publisher(true)
			if err != nil {
				return err
			}
			defer cleanup()

			if top > 0 {
				videos, err := pub.Popular(cmd.Context(), top)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, videos)
				}
				rows := make([][]string, 0, len(videos))
				for _, v := range videos {
					rows = append(rows, []string{v.ID, v.Duration, v.Title})
				}
				fmt.Fprintln(out, renderTable([]string{"Video ID", "Duration", "Title"}, rows, nil))
				return nil
			}

			items, err := pub.List(cmd.Context(), publish.ListRequest{
				PlaylistID: playlistID,
				Uploaded:   uploaded,
				PageSize:   pageSize,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, items)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "No entries found")
				return nil
			}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{strconv.Itoa(item.Position), item.VideoID, item.Title, item.PublishedAt})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Video ID", "Title", "Published"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&publishMethods, "publish-methods", false, "Show the methods available to compute the publish date")
	f.BoolVar(&uploaded, "uploaded", false, "List the entries uploaded by the authorized account")
	f.StringVar(&playlistID, "playlist", "", "List the entries of this playlist")
	f.IntVar(&top, "top", 0, "List the N most popular videos of the catalog")
	f.IntVar(&pageSize, "page-size", 0, "Items requested per page")
	f.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("uploaded", "playlist", "top", "publish-methods")

	return cmd
}
