// Package credentials persists catalog access tokens and authorizes outgoing
// catalog requests.
//
// Tokens live in a JSON file with owner-only permissions. The
// VIDPUB_ACCESS_TOKEN environment variable takes precedence over the file so
// short-lived tokens minted by external tooling can be injected per run.
package credentials
