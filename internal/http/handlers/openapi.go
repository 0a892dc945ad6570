package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}} {{.Version}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <style>body { margin: 0; } redoc { display: block; height: 100vh; }</style>
  </head>
  <body>
    <redoc spec-url="{{.SpecURL}}"></redoc>
    <script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
  </body>
</html>`))

type docsPage struct {
	Title   string
	Version string
	SpecURL string
}

// docsHTML is rendered once from the embedded document so the page title
// always matches the served spec.
var docsHTML = mustRenderDocs(openAPISpec, "/v1/openapi.json")

func mustRenderDocs(spec []byte, specURL string) []byte {
	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := json.Unmarshal(spec, &doc); err != nil {
		panic("handlers: embedded openapi.json is invalid: " + err.Error())
	}
	var buf bytes.Buffer
	page := docsPage{Title: doc.Info.Title, Version: doc.Info.Version, SpecURL: specURL}
	if err := docsTemplate.Execute(&buf, page); err != nil {
		panic("handlers: render docs page: " + err.Error())
	}
	return buf.Bytes()
}

func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(docsHTML)
}
