package api

import (
	"embed"
	"net/http"

	"icingview/pkg/logger"
)

//go:embed static/*
var staticFS embed.FS

// staticContentTypes maps the three served assets to their content types.
// Anything else under /static/ falls through to the shared 404.
var staticContentTypes = map[string]string{
	"script.js":     "text/javascript",
	"script.ts":     "application/typescript",
	"script.js.map": "application/json",
}

// handleStatic serves one of the build-time-embedded assets by logical
// name. Assets are immutable for the process lifetime.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request, name string) {
	contentType, ok := staticContentTypes[name]
	if !ok {
		s.handleNotFound(w, r)
		return
	}
	data, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		// Registered assets are embedded at build time; a read failure
		// means the binary itself is broken.
		s.log.Error(r.Context(), "failed to read embedded asset",
			logger.String("asset", name), logger.Error(err))
		s.render.InternalError(w)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
