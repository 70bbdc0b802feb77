// Package render turns validated data into HTTP response bodies.
//
// Every render path has a fallback: if template execution fails, the
// caller's response degrades to a fixed plain-text 500 instead of
// propagating the failure. A handler must always produce some response.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"

	"icingview/internal/domain/row"
	"icingview/pkg/logger"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

const (
	contentTypePlain = "text/plain; charset=utf-8"
	contentTypeHTML  = "text/html; charset=utf-8"
)

// internalErrorBody is the fixed body of the fallback 500 response.
const internalErrorBody = "500 Internal Server Error"

// Renderer writes response bodies. It is safe for concurrent use.
type Renderer struct {
	log logger.Logger
}

// New creates a Renderer logging render failures to log.
func New(log logger.Logger) *Renderer {
	return &Renderer{log: log}
}

// tableData feeds the table template.
type tableData struct {
	Rows []row.Row
}

// upstreamErrorData feeds the upstream error template.
type upstreamErrorData struct {
	StatusCode int
	ErrorText  string
}

// PlainText writes a plain-text response with the given status.
func (rd *Renderer) PlainText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", contentTypePlain)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// NotFound writes the shared 404 response.
func (rd *Renderer) NotFound(w http.ResponseWriter) {
	rd.PlainText(w, http.StatusNotFound, "404 Not Found")
}

// InternalError writes the fixed 500 response.
func (rd *Renderer) InternalError(w http.ResponseWriter) {
	rd.PlainText(w, http.StatusInternalServerError, internalErrorBody)
}

// Index renders the landing page.
func (rd *Renderer) Index(ctx context.Context, w http.ResponseWriter) {
	rd.html(ctx, w, "index", nil)
}

// Table renders the status table for rows, which must already be sorted.
func (rd *Renderer) Table(ctx context.Context, w http.ResponseWriter, rows []row.Row) {
	rd.html(ctx, w, "table", tableData{Rows: rows})
}

// UpstreamError renders the error view for a non-200 upstream response.
// The page itself is served with status 200; the upstream's status code is
// conveyed inside the body for the operator to read.
func (rd *Renderer) UpstreamError(ctx context.Context, w http.ResponseWriter, statusCode int, payload string) {
	rd.html(ctx, w, "icinga_error", upstreamErrorData{
		StatusCode: statusCode,
		ErrorText:  payload,
	})
}

// html executes a template into a buffer first so a late execution failure
// cannot corrupt an already-started 200 response.
func (rd *Renderer) html(ctx context.Context, w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		rd.log.Error(ctx, "failed to render template",
			logger.String("template", name), logger.Error(err))
		rd.InternalError(w)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
