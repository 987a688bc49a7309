package download

// Package download implements the download pipeline on top of the external
// media-download library (via github.com/lrstanley/go-ytdlp). It manages task
// lifecycle, concurrency limits, cookie-authenticated sessions, and progress
// propagation to callers.
