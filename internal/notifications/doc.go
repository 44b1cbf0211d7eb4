// Package notifications delivers publish events via pluggable notifiers.
//
// The default implementation posts to the ntfy topic configured in
// config.toml and degrades to a no-op when no topic is set. Callers treat
// delivery as best effort: a failed notification never fails a publish.
package notifications
