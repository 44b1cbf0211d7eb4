// Package ffmpeg wraps the ffmpeg and ffprobe command line tools.
//
// Screenshot extracts a single still frame next to a video file and reuses
// an existing still instead of regenerating it. Inspect decodes ffprobe JSON
// so callers can check a timestamp against the video length before asking
// ffmpeg for a frame that does not exist.
package ffmpeg
