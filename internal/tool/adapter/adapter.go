package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Cyclone1070/mentat/internal/tool"
	"github.com/go-viper/mapstructure/v2"
)

// Tool is a named operation invoked with loosely typed arguments.
type Tool interface {
	Name() string
	Description() string
	Declaration() tool.Declaration
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Validator is an interface for request types that support validation
type Validator interface {
	Validate() error
}

// ToolExecutor runs a tool with a typed request.
type ToolExecutor[Req, Resp any] func(context.Context, Req) (Resp, error)

// BaseAdapter turns a typed ToolExecutor into a Tool by centralizing:
// - Argument decoding (mapstructure)
// - Request validation
// - Response marshaling
type BaseAdapter[Req, Resp any] struct {
	declaration tool.Declaration
	executor    ToolExecutor[Req, Resp]
}

// NewBaseAdapter creates a new base adapter.
//
// Example usage:
//
//	adapter := NewBaseAdapter(
//	    "read_file",
//	    "Reads a file from the workspace",
//	    &tool.Schema{...},
//	    readTool.Run,
//	)
func NewBaseAdapter[Req, Resp any](
	name string,
	description string,
	params *tool.Schema,
	executor ToolExecutor[Req, Resp],
) *BaseAdapter[Req, Resp] {
	return &BaseAdapter[Req, Resp]{
		declaration: tool.Declaration{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		executor: executor,
	}
}

// Name implements Tool
func (b *BaseAdapter[Req, Resp]) Name() string {
	return b.declaration.Name
}

// Description implements Tool
func (b *BaseAdapter[Req, Resp]) Description() string {
	return b.declaration.Description
}

// Declaration implements Tool
func (b *BaseAdapter[Req, Resp]) Declaration() tool.Declaration {
	return b.declaration
}

// Execute implements Tool.
// Unknown argument keys are rejected so a misspelt "path" is not silently ignored.
func (b *BaseAdapter[Req, Resp]) Execute(ctx context.Context, args map[string]any) (string, error) {
	var req Req

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &req,
	})
	if err != nil {
		return "", err
	}
	if err := decoder.Decode(args); err != nil {
		return "", &ArgumentError{Tool: b.declaration.Name, Cause: err}
	}

	if v, ok := any(&req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return "", fmt.Errorf("%s validation failed: %w", b.declaration.Name, err)
		}
	}

	resp, err := b.executor(ctx, req)
	if err != nil {
		return "", err
	}

	bytes, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal response: %w", err)
	}

	return string(bytes), nil
}
