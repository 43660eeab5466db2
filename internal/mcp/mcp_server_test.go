package mcp_test

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solartools/epdload/internal/contract"
	mcp_internal "github.com/solartools/epdload/internal/mcp"
	"github.com/solartools/epdload/schema"
)

func testServerConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Level:    schema.Level2,
		DataPath: t.TempDir(),
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	var store contract.ManifestStore
	s := mcp_internal.NewMCPServer(testServerConfig(t), store)

	ctx := context.Background()

	t.Run("load_epd_series missing viewing", func(t *testing.T) {
		tool := s.GetTool("load_epd_series")
		require.NotNil(t, tool, "Tool load_epd_series should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "load_epd_series",
				Arguments: map[string]any{
					"sensor": "het", // Missing viewing
					"start":  "20200820",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "viewing direction")
	})

	t.Run("load_epd_series invalid start date", func(t *testing.T) {
		tool := s.GetTool("load_epd_series")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "load_epd_series",
				Arguments: map[string]any{
					"sensor":  "het",
					"viewing": "sun",
					"start":   "not-a-date",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid start date")
	})

	t.Run("sync_epd_files step with viewing", func(t *testing.T) {
		tool := s.GetTool("sync_epd_files")
		require.NotNil(t, tool, "Tool sync_epd_files should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "sync_epd_files",
				Arguments: map[string]any{
					"sensor":  "step",
					"viewing": "sun", // step has no viewing
					"start":   "20200820",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no viewing direction")
	})
}

func TestMCPServerListFilesEmptyTree(t *testing.T) {
	var store contract.ManifestStore
	s := mcp_internal.NewMCPServer(testServerConfig(t), store)

	tool := s.GetTool("list_epd_files")
	require.NotNil(t, tool, "Tool list_epd_files should exist")

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "list_epd_files",
			Arguments: map[string]any{
				"sensor":  "het",
				"viewing": "sun",
				"start":   "20200820",
				"end":     "20200821",
			},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	// An empty local tree yields an empty listing, not an error.
	assert.Equal(t, "[]", res.Content[0].(mcp.TextContent).Text)
}
