package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// PageTemplate is the template rendered for every view.
const PageTemplate = "templates/page.tpl"

// TemplatesFS exposes the embedded template bundle so callers can copy or
// override it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
