package swaggerkit

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
)

//go:embed openapi.json
var openapiDoc []byte

// SpecMutator adjusts the decoded document before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// Register adds m to every served document, call it from init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// Document decodes the embedded spec and applies the envelope defaults and every mutator
func Document(basePath, titleSuffix string) (map[string]any, error) {
	var spec map[string]any
	if err := json.Unmarshal(openapiDoc, &spec); err != nil {
		return nil, err
	}
	normalizeVersion(spec, basePath)
	if titleSuffix != "" {
		if info, ok := spec["info"].(map[string]any); ok {
			info["title"] = strings.TrimSpace(info["title"].(string) + " " + titleSuffix)
		}
	}
	schemas := ensureMap(ensureMap(spec, "components"), "schemas")
	if _, ok := schemas["ErrorResponse"]; !ok {
		schemas["ErrorResponse"] = errorSchema
	}
	defaultResponse(spec, "400", "Bad Request", map[string]any{
		"status_code": 400, "status": "Bad Request", "code": 7,
		"error": "exerciseId must be greater than 0", "field": "exerciseId",
	})
	defaultResponse(spec, "500", "Internal Server Error", map[string]any{
		"status_code": 500, "status": "Internal Server Error", "code": 1, "error": "panic recovered",
	})
	for _, m := range mutators {
		m(spec)
	}
	return spec, nil
}

var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status"},
}

// normalizeVersion pins 3.0.3, swagger ui renders neither 2.0 nor 3.1 through http-swagger
func normalizeVersion(spec map[string]any, basePath string) {
	delete(spec, "swagger")
	spec["openapi"] = "3.0.3"
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": basePath}}
	}
}

func ensureMap(parent map[string]any, key string) map[string]any {
	m, ok := parent[key].(map[string]any)
	if !ok {
		m = map[string]any{}
		parent[key] = m
	}
	return m
}

// defaultResponse adds status to every operation that does not document it
func defaultResponse(spec map[string]any, status, desc string, example map[string]any) {
	paths, _ := spec["paths"].(map[string]any)
	resp := map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, item := range paths {
		ops, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, o := range ops {
			op, ok := o.(map[string]any)
			if !ok {
				continue
			}
			responses := ensureMap(op, "responses")
			if _, ok := responses[status]; !ok {
				responses[status] = resp
			}
		}
	}
}

func serveDoc(basePath, titleSuffix string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		spec, err := Document(basePath, titleSuffix)
		if err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
