package cookies

// Package cookies validates the Netscape-format cookie export required for an
// authenticated Apple Music session: it resolves a candidate path to its
// absolute form and fails fast with a typed error when no regular file exists
// there. The export's contents are never read here.
