// Package views holds the server-rendered HTML pages.
package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

const Index = "index.html"

// Templates parses every embedded page. Panics on a malformed template since they ship with the binary.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(files, "templates/*.html"))
}

// IndexPage is the data rendered by the index template.
type IndexPage struct {
	Users []IndexUser
	Error string
}

type IndexUser struct {
	ID       int64
	Username string
	Email    string
}
