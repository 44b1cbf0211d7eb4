// Package catalog talks to the remote video catalog.
//
// A Client is built from an explicit Session carrying the endpoints, the
// credential capability and the HTTP transport for one command invocation.
// It creates entries with a resumable upload, attaches thumbnails, manages
// playlist membership, lists playlists page by page and performs merge
// updates that always submit the whole snippet back, because the catalog
// resets snippet fields omitted from an update.
//
// No call is retried. Every network or protocol failure surfaces as a
// *TransportError that matches services.ErrTransport.
package catalog
