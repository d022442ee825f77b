package horizon

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be rendered article HTML (e.g., from a Renderer).
	Convert(html string) (string, error)
}
