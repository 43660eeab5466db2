package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/solartools/epdload/core"
	"github.com/solartools/epdload/internal/cdf"
	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/internal/outwriter"
	"github.com/solartools/epdload/internal/soar"
	"github.com/solartools/epdload/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.ManifestStore
}

// buildRequest applies the tool arguments on top of the base config and
// returns the validated request.
func (h *toolHandler) buildRequest(request mcp.CallToolRequest) (schema.Request, error) {
	cfg := h.baseCfg.Clone()

	if s := request.GetString("sensor", ""); s != "" {
		cfg.Sensor = schema.Sensor(s)
	}
	if v := request.GetString("viewing", ""); v != "" {
		cfg.Viewing = schema.Viewing(v)
	}
	if l := request.GetString("level", ""); l != "" {
		cfg.Level = schema.Level(l)
	}
	if p := request.GetString("data_path", ""); p != "" {
		cfg.DataPath = p
	}

	if s := request.GetString("start", ""); s != "" {
		start, err := contract.ParseDateString(s)
		if err != nil {
			return schema.Request{}, schema.NewConfigError("invalid start date '%s'. expected YYYYMMDD or YYYY-MM-DD", s)
		}
		cfg.StartDate = start
		cfg.EndDate = start
	}
	if e := request.GetString("end", ""); e != "" {
		end, err := contract.ParseDateString(e)
		if err != nil {
			return schema.Request{}, schema.NewConfigError("invalid end date '%s'. expected YYYYMMDD or YYYY-MM-DD", e)
		}
		cfg.EndDate = end
	}

	req := cfg.BuildRequest()
	if err := req.Validate(); err != nil {
		return schema.Request{}, err
	}
	return req, nil
}

func (h *toolHandler) handleLoadSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.buildRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid load parameters: %v", err)), nil
	}
	req.AutoFetch = request.GetBool("auto_fetch", true)

	loader := core.NewLoader(core.NewSynchronizer(soar.NewClient(), h.store), cdf.NewDecoder())
	result, err := loader.Load(ctx, &req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(outwriter.BuildLoadJSON(result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSyncFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.buildRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid sync parameters: %v", err)), nil
	}
	req.AutoFetch = true

	sync := core.NewSynchronizer(soar.NewClient(), h.store)
	outcomes := sync.SyncRange(ctx, &req)

	jsonData, _ := json.MarshalIndent(outwriter.BuildFetchJSON(outcomes), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.buildRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid list parameters: %v", err)), nil
	}
	req.AutoFetch = false

	sync := core.NewSynchronizer(soar.NewClient(), nil)
	type fileEntry struct {
		Date    string `json:"date"`
		Version int    `json:"version"`
		Name    string `json:"name"`
		Path    string `json:"path"`
	}
	files := []fileEntry{}
	for _, day := range req.Days() {
		desc, err := sync.ResolveDay(ctx, &req, day)
		if err != nil {
			if schema.IsDayFailure(err) {
				continue
			}
			return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
		}
		files = append(files, fileEntry{
			Date:    desc.Date.Format(schema.DateFormat),
			Version: desc.Version,
			Name:    desc.Name,
			Path:    desc.LocalPath,
		})
	}

	jsonData, _ := json.MarshalIndent(files, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
