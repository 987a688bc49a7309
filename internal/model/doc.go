package model

// Package model defines domain data structures shared across the app: download
// tasks carrying Apple Music track metadata and the task status enum with
// explicit state transitions.
