package contactform

import (
	"io/fs"

	"github.com/goliatone/go-contactform/pkg/renderers/web"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return web.TemplatesFS()
}

// AssetsFS exposes the stylesheet and progressive-enhancement script.
//
// Typical mount:
//
//	mux.Handle("/assets/contactform/",
//	  http.StripPrefix("/assets/contactform/",
//	    http.FileServerFS(contactform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return web.AssetsFS()
}
