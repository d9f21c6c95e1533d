package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Cyclone1070/mentat/internal/tool"
)

// Registry dispatches tool calls by name.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates a registry holding tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds t, replacing any tool with the same name.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the tool registered as name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Execute runs the named tool.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", &UnknownToolError{Name: name}
	}
	return t.Execute(ctx, args)
}

// UnknownToolError is returned for a name with no registered tool.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
func (e *UnknownToolError) Unwrap() error { return ErrUnknownTool }

// ArgumentError is returned when tool arguments do not match the request type.
type ArgumentError struct {
	Tool  string
	Cause error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Cause)
}
func (e *ArgumentError) Unwrap() error { return e.Cause }

var ErrUnknownTool = errors.New("unknown tool")

// Declarations returns the declarations of all tools in name order.
func (r *Registry) Declarations() []tool.Declaration {
	out := make([]tool.Declaration, 0, len(r.tools))
	for _, name := range r.Names() {
		out = append(out, r.tools[name].Declaration())
	}
	return out
}
