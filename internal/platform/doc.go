package platform

// Package platform contains OS integration glue: filesystem helpers and the
// default location of the local music library.
