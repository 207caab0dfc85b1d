package docs

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"

	"github.com/everkind/backend/internal/config"
	"github.com/everkind/backend/internal/model/chat"
	"github.com/everkind/backend/pkg/utils"
)

// Handler serves the OpenAPI document and a browser viewer for it.
type Handler struct {
	once sync.Once
	doc  map[string]any
}

func New() *Handler {
	return &Handler{}
}

// RegisterRoutes mounts /openapi.json and /docs.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/openapi.json", h.handleDocument)
	r.Get("/docs", h.handleViewer)
}

// Document builds the OpenAPI document once; schemas come from the Go types.
func (h *Handler) Document() map[string]any {
	h.once.Do(func() {
		h.doc = buildDocument()
	})
	return h.doc
}

func (h *Handler) handleDocument(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.Document())
}

func (h *Handler) handleViewer(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(viewerPage))
}

func buildDocument() map[string]any {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	schemas := map[string]*jsonschema.Schema{
		"ChatRequest":          reflector.Reflect(&chat.ChatRequest{}),
		"ChatResponse":         reflector.Reflect(&chat.ChatResponse{}),
		"HealthResponse":       reflector.Reflect(&chat.HealthResponse{}),
		"ConversationResponse": reflector.Reflect(&chat.ConversationResponse{}),
		"ErrorResponse":        reflector.Reflect(&chat.ErrorResponse{}),
		"FieldError":           reflector.Reflect(&chat.FieldError{}),
	}
	components := make(map[string]any, len(schemas))
	for name, schema := range schemas {
		schema.Version = ""
		components[name] = schema
	}

	detail := map[string]any{
		"type":       "object",
		"properties": map[string]any{"detail": map[string]any{"type": "string"}},
	}
	validation := map[string]any{
		"type": "object",
		"properties": map[string]any{"detail": map[string]any{
			"type":  "array",
			"items": ref("FieldError"),
		}},
	}

	return map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       config.APITitle,
			"description": config.APIDescription,
			"version":     config.APIVersion,
		},
		"paths": map[string]any{
			"/api/v1/chat": map[string]any{
				"post": map[string]any{
					"summary":     "Send a message to the AI therapist",
					"description": "Send a message and receive a therapeutic response using CBT techniques",
					"requestBody": map[string]any{
						"required": true,
						"content":  jsonContent(ref("ChatRequest")),
					},
					"responses": map[string]any{
						"200": response("Therapeutic response", ref("ChatResponse")),
						"422": response("Validation error", validation),
						"500": response("Provider not configured or unexpected error", detail),
					},
				},
			},
			"/api/v1/health": map[string]any{
				"get": map[string]any{
					"summary": "Health check endpoint",
					"responses": map[string]any{
						"200": response("Current service health", ref("HealthResponse")),
					},
				},
			},
			"/api/v1/conversation/{conversation_id}": map[string]any{
				"get": map[string]any{
					"summary": "Get conversation history",
					"parameters": []any{map[string]any{
						"name":     "conversation_id",
						"in":       "path",
						"required": true,
						"schema":   map[string]any{"type": "string"},
					}},
					"responses": map[string]any{
						"200": response("Recorded conversation", ref("ConversationResponse")),
						"404": response("Conversation not found", detail),
						"500": response("Error retrieving conversation history", detail),
					},
				},
			},
		},
		"components": map[string]any{"schemas": components},
	}
}

func ref(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema any) map[string]any {
	return map[string]any{"application/json": map[string]any{"schema": schema}}
}

func response(description string, schema any) map[string]any {
	return map[string]any{"description": description, "content": jsonContent(schema)}
}

const viewerPage = `<!DOCTYPE html>
<html>
<head>
  <title>EverKind Therapeutic API - Docs</title>
  <meta charset="utf-8"/>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({url: "/openapi.json", dom_id: "#swagger-ui"});
  </script>
</body>
</html>`
