// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/solartools/epdload/internal/contract"
)

// NewMCPServer initializes and configures the epdload MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.ManifestStore) *server.MCPServer {
	s := server.NewMCPServer(
		"EPD Telemetry Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: load_epd_series ---
	s.AddTool(mcp.NewTool("load_epd_series",
		mcp.WithDescription("Load EPD science data for a date range into per-species time-indexed tables with energy channel metadata."),
		mcp.WithString("sensor", mcp.Description("Instrument sensor."), mcp.Required(), mcp.Enum("ept", "het", "step")),
		mcp.WithString("viewing", mcp.Description("Viewing direction, required for ept and het."), mcp.Enum("sun", "asun", "north", "south")),
		mcp.WithString("level", mcp.Description("Data level (ll, l2). Defaults to 'l2'."), mcp.Enum("ll", "l2")),
		mcp.WithString("start", mcp.Description("First day of the range (YYYYMMDD or YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last day of the range, inclusive. Defaults to start.")),
		mcp.WithString("data_path", mcp.Description("Root of the local data tree.")),
		mcp.WithBoolean("auto_fetch", mcp.Description("Download missing or newer files from the archive. Defaults to true.")),
	), h.handleLoadSeries)

	// --- 2. Tool: sync_epd_files ---
	s.AddTool(mcp.NewTool("sync_epd_files",
		mcp.WithDescription("Synchronize the local data tree with the SOAR archive for a date range, reporting the per-day outcome."),
		mcp.WithString("sensor", mcp.Description("Instrument sensor."), mcp.Required(), mcp.Enum("ept", "het", "step")),
		mcp.WithString("viewing", mcp.Description("Viewing direction, required for ept and het."), mcp.Enum("sun", "asun", "north", "south")),
		mcp.WithString("level", mcp.Description("Data level (ll, l2). Defaults to 'l2'."), mcp.Enum("ll", "l2")),
		mcp.WithString("start", mcp.Description("First day of the range (YYYYMMDD or YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last day of the range, inclusive. Defaults to start.")),
		mcp.WithString("data_path", mcp.Description("Root of the local data tree.")),
	), h.handleSyncFiles)

	// --- 3. Tool: list_epd_files ---
	s.AddTool(mcp.NewTool("list_epd_files",
		mcp.WithDescription("List the locally available daily files for a date range. No archive interaction takes place."),
		mcp.WithString("sensor", mcp.Description("Instrument sensor."), mcp.Required(), mcp.Enum("ept", "het", "step")),
		mcp.WithString("viewing", mcp.Description("Viewing direction, required for ept and het."), mcp.Enum("sun", "asun", "north", "south")),
		mcp.WithString("level", mcp.Description("Data level (ll, l2). Defaults to 'l2'."), mcp.Enum("ll", "l2")),
		mcp.WithString("start", mcp.Description("First day of the range (YYYYMMDD or YYYY-MM-DD)."), mcp.Required()),
		mcp.WithString("end", mcp.Description("Last day of the range, inclusive. Defaults to start.")),
		mcp.WithString("data_path", mcp.Description("Root of the local data tree.")),
	), h.handleListFiles)

	return s
}

// StartMCPServer starts the epdload MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.ManifestStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
