package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-odoo/core"
)

// Envelope is the JSON document printed for every command.
type Envelope map[string]any

func successEnvelope(key string, value any) Envelope {
	env := Envelope{"success": true}
	if key != "" {
		env[key] = value
	}
	return env
}

// listEnvelope adds a count next to the list. A nil list is printed as [].
func listEnvelope[T any](key string, items []T) Envelope {
	if items == nil {
		items = []T{}
	}
	env := successEnvelope(key, items)
	env["count"] = len(items)
	return env
}

func failureEnvelope(err error) Envelope {
	env := Envelope{"success": false}
	if err == nil {
		env["error"] = "unknown error"
		return env
	}
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich != nil {
		env["error"] = rich.Message
		if rich.TextCode != "" {
			env["code"] = rich.TextCode
		}
		return env
	}
	env["error"] = err.Error()
	return env
}

func printEnvelope(w io.Writer, env Envelope) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(env)
}

// SavedFile describes a binary payload written to disk. Content is never
// echoed back in the envelope.
type SavedFile struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	Bytes       int    `json:"bytes"`
}

// writePayloads stores each payload under root (or its own relative path
// when root is empty) and returns what was written.
func writePayloads(root string, payloads ...core.BinaryPayload) ([]SavedFile, error) {
	saved := make([]SavedFile, 0, len(payloads))
	for _, payload := range payloads {
		target, err := payloadPath(root, payload)
		if err != nil {
			return saved, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return saved, fmt.Errorf("cli: create directory for %s: %w", target, err)
		}
		if err := os.WriteFile(target, payload.Content, 0o644); err != nil {
			return saved, fmt.Errorf("cli: write %s: %w", target, err)
		}
		saved = append(saved, SavedFile{
			Name:        payload.Name,
			Path:        target,
			ContentType: payload.ContentType,
			Bytes:       len(payload.Content),
		})
	}
	return saved, nil
}

func payloadPath(root string, payload core.BinaryPayload) (string, error) {
	rel := strings.TrimSpace(payload.Path)
	if rel == "" {
		rel = strings.TrimSpace(payload.Name)
	}
	if rel == "" {
		return "", errors.New("cli: payload has neither path nor name")
	}
	rel = filepath.Clean(rel)
	if filepath.IsAbs(rel) {
		rel = filepath.Base(rel)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("cli: payload path %q escapes the output directory", rel)
	}
	if strings.TrimSpace(root) == "" {
		return rel, nil
	}
	return filepath.Join(root, rel), nil
}
