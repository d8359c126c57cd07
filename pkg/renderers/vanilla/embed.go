package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templateFiles embed.FS

// TemplatesFS exposes the embedded chrome template bundle rooted at the
// template directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
