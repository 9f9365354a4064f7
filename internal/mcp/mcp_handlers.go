package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/analysis"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/internal/dataio"
	"github.com/huangsam/touchline/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

// trackingConfig applies the framerate override shared by the tracking tools.
func (h *toolHandler) trackingConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if fr := request.GetFloat("framerate", 0); fr != 0 {
		cfg.Framerate = fr
	}
	if cfg.Framerate <= 0 {
		return nil, fmt.Errorf("framerate must be positive (received %g)", cfg.Framerate)
	}
	return cfg, nil
}

func (h *toolHandler) handleDescribePitch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	template := request.GetString("template", "")
	if template == "" {
		return mcp.NewToolResultError("template is required"), nil
	}
	summary, err := analysis.DescribePitch(template, request.GetFloat("length", 0), request.GetFloat("width", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pitch: %v", err)), nil
	}
	return jsonResult(summary), nil
}

func (h *toolHandler) handleSummarizeTracking(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg, err := h.trackingConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tracking parameters: %v", err)), nil
	}
	xy, err := dataio.ReadXY(path, cfg.Framerate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read tracking data: %v", err)), nil
	}
	return jsonResult(analysis.SummarizeTracking(xy)), nil
}

func (h *toolHandler) handleSelectEvents(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg := h.baseCfg.Clone()
	cfg.Conditions = nil
	for _, expr := range request.GetStringSlice("where", nil) {
		cond, err := core.ParseCondition(expr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid condition: %v", err)), nil
		}
		cfg.Conditions = append(cfg.Conditions, cond)
	}
	if eid := request.GetString("eid", ""); eid != "" {
		cfg.Conditions = append(cfg.Conditions, core.Equal(string(core.ColEventID), core.ParseValue(eid)))
	}
	start, end := request.GetFloat("start", math.Inf(-1)), request.GetFloat("end", math.Inf(1))
	if start >= end {
		return mcp.NewToolResultError(fmt.Sprintf("invalid gameclock range: start %g is not before end %g", start, end)), nil
	}
	if !math.IsInf(start, -1) || !math.IsInf(end, 1) {
		cfg.Conditions = append(cfg.Conditions, core.Range(string(core.ColGameclock), start, end))
	}
	cfg.Frameclock = request.GetBool("frameclock", cfg.Frameclock)
	if fr := request.GetFloat("framerate", 0); fr != 0 {
		cfg.Framerate = fr
	}

	selected, err := analysis.SelectEvents(cfg, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("event selection failed: %v", err)), nil
	}
	records := selected.Records()
	if l := request.GetInt("limit", 0); l > 0 && len(records) > l {
		records = records[:l]
	}
	return jsonResult(records), nil
}

func (h *toolHandler) handlePlayerKinematics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg, err := h.trackingConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tracking parameters: %v", err)), nil
	}
	if t := request.GetString("template", ""); t != "" {
		cfg.PitchTemplate = t
		cfg.PitchLength = request.GetFloat("length", 0)
		cfg.PitchWidth = request.GetFloat("width", 0)
	}
	if d := request.GetString("difference", ""); d != "" {
		cfg.Difference = schema.Difference(d)
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	ranked, err := analysis.GetKinematicsForFile(analysis.WithSuppressHeader(ctx), cfg, h.mgr, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(ranked), nil
}

func (h *toolHandler) handleTeamShape(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	cfg, err := h.trackingConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tracking parameters: %v", err)), nil
	}
	if w := request.GetFloat("window", 0); w > 0 {
		cfg.WindowSeconds = w
	}
	if e := request.GetString("exclude", ""); e != "" {
		if cfg.Excludes, err = contract.ParseIntList(e); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid exclude: %v", err)), nil
		}
	}

	xy, err := dataio.ReadXY(path, cfg.Framerate)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read tracking data: %v", err)), nil
	}
	shape, err := analysis.ComputeShape(xy, cfg.Excludes, cfg.WindowFrames())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(shape.Windows), nil
}
