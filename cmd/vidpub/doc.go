// Package main hosts the vidpub CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into publish flows:
// uploading a video with derived metadata and a composed thumbnail,
// amending entries that are already published, listing playlists, and
// scaffolding configuration. Configuration and logging are resolved once
// per invocation in commandContext so subcommands only map flags onto
// requests for internal/publish.
package main
