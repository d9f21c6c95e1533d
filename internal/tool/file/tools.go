package file

import (
	"github.com/Cyclone1070/mentat/internal/config"
	"github.com/Cyclone1070/mentat/internal/tool"
	"github.com/Cyclone1070/mentat/internal/tool/adapter"
	"github.com/Cyclone1070/mentat/internal/tool/service/fs"
	"github.com/Cyclone1070/mentat/internal/tool/service/path"
)

var zero = 0.0

var readFileSchema = &tool.Schema{
	Type: tool.TypeObject,
	Properties: map[string]*tool.Schema{
		"path":   {Type: tool.TypeString, Description: "File path relative to the workspace root"},
		"offset": {Type: tool.TypeInteger, Description: "Byte offset to start reading from", Minimum: &zero},
		"limit":  {Type: tool.TypeInteger, Description: "Maximum number of bytes to read, 0 for all", Minimum: &zero},
	},
	Required: []string{"path"},
}

var writeFileSchema = &tool.Schema{
	Type: tool.TypeObject,
	Properties: map[string]*tool.Schema{
		"path":    {Type: tool.TypeString, Description: "File path relative to the workspace root"},
		"content": {Type: tool.TypeString, Description: "Full file content"},
	},
	Required: []string{"path", "content"},
}

// NewWorkspaceRegistry returns read_file and write_file confined to root.
func NewWorkspaceRegistry(root string, cfg *config.ToolsConfig) (*adapter.Registry, error) {
	v, err := path.NewValidator(root)
	if err != nil {
		return nil, err
	}
	fsys := fs.NewOSFileSystem()
	return adapter.NewRegistry(
		adapter.NewBaseAdapter("read_file", "Read a text file inside the workspace.", readFileSchema,
			NewReadFileTool(fsys, v, cfg).Run),
		adapter.NewBaseAdapter("write_file", "Create or replace a text file inside the workspace, creating parent directories.", writeFileSchema,
			NewWriteFileTool(fsys, v, cfg).Run),
	), nil
}
