package domain

// KeyPrefix namespaces every key written to a shared key-value store.
const KeyPrefix = "docsearch:"

// Defaults of the ranking pass.
const (
	DefaultTopK         = 5
	DefaultPreviewChars = 500
	DefaultDimensions   = 384
)

// PreviewMarker is appended to a preview cut short of the full text.
const PreviewMarker = "..."
