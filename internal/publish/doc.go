// Package publish sequences the upload, update and list commands.
//
// An upload derives the submission metadata, resolves the publish time,
// makes sure a thumbnail exists (generating one from a video still when
// needed), creates the catalog entry and then attaches the thumbnail and
// playlist membership. Creating the entry is the only mandatory network
// step; thumbnail and playlist failures are logged as warnings and reported
// on the result. Updates apply the same best-effort policy per entry, which
// matters when the target expands to every uploaded entry.
//
// Uploads hold an exclusive file lock per video so two invocations cannot
// publish the same file concurrently.
package publish
