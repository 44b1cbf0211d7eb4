// Package metadata derives the canonical submission fields for a video:
// title from the filename, episode number from a hex title prefix, tags from
// a keyword list, plus the privacy and category enumerations and the
// description merge policies used when amending published entries.
package metadata
