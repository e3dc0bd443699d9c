package handler

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
)

// DocsHandler serves the OpenAPI document from specPath, falling back to the
// copy built into the binary.
type DocsHandler struct {
	specPath string
	embedded []byte
}

func NewDocsHandler(specPath string, embedded []byte) *DocsHandler {
	return &DocsHandler{specPath: strings.TrimSpace(specPath), embedded: embedded}
}

func (h *DocsHandler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	content := h.embedded
	if h.specPath != "" {
		fromDisk, err := os.ReadFile(h.specPath)
		switch {
		case err == nil:
			content = fromDisk
		case !os.IsNotExist(err):
			slog.Warn("reading openapi spec", "path", h.specPath, "error", err)
		}
	}

	if len(content) == 0 {
		http.Error(w, "openapi spec not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *DocsHandler) SwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' https://unpkg.com; script-src 'self' 'unsafe-inline' https://unpkg.com; style-src 'self' 'unsafe-inline' https://unpkg.com; img-src 'self' data: https://validator.swagger.io")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerPage))
}

const swaggerPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Task Manager API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui', persistAuthorization: true });
    </script>
  </body>
</html>`
