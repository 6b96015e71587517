// Package tools exposes the search pipeline as a closed set of typed
// commands. Each command variant is decoded strictly and validated
// against its schema before dispatch, with no ad-hoc key matching on
// the request payload.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Tool is a named command handler. Execute takes the raw JSON arguments,
// validates them, and returns a formatted text block.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// validate is the shared schema validator for all request variants
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a decoded request against its declared schema.
func Validate(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// Registry maps command names to tools.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering the same name twice replaces the
// earlier tool.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute dispatches a command by name.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	return t.Execute(ctx, args)
}

// decodeStrict unmarshals raw arguments rejecting unknown fields, so a
// misspelled key fails loudly instead of silently defaulting.
func decodeStrict(raw json.RawMessage, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed arguments: %w", err)
	}
	return nil
}
