// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/touchline/internal/contract"
)

// NewMCPServer initializes and configures the Touchline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Touchline Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: describe_pitch ---
	s.AddTool(mcp.NewTool("describe_pitch",
		mcp.WithDescription("Describe the coordinate system of a pitch template."),
		mcp.WithString("template", mcp.Description("Pitch template (opta, statsperform or chyronhego_international)."), mcp.Required()),
		mcp.WithNumber("length", mcp.Description("Actual pitch length in meters, for templates without fixed dimensions.")),
		mcp.WithNumber("width", mcp.Description("Actual pitch width in meters, for templates without fixed dimensions.")),
	), h.handleDescribePitch)

	// --- 2. Tool: summarize_tracking ---
	s.AddTool(mcp.NewTool("summarize_tracking",
		mcp.WithDescription("Summarize coverage and coordinate ranges of every entity in a tracking file."),
		mcp.WithString("path", mcp.Description("Path to the tracking file (csv, json or parquet)."), mcp.Required()),
		mcp.WithNumber("framerate", mcp.Description("Frames per second of the tracking data.")),
	), h.handleSummarizeTracking)

	// --- 3. Tool: select_events ---
	s.AddTool(mcp.NewTool("select_events",
		mcp.WithDescription("Select events from an events file by column conditions."),
		mcp.WithString("path", mcp.Description("Path to the events file (csv, json or parquet)."), mcp.Required()),
		mcp.WithString("eid", mcp.Description("Keep only events of this type.")),
		mcp.WithNumber("start", mcp.Description("Keep events with gameclock at or after this second.")),
		mcp.WithNumber("end", mcp.Description("Keep events with gameclock before this second.")),
		mcp.WithArray("where", mcp.Description("Conditions such as 'eID=Pass', 'gameclock=0:45' or 'pID=null'."), mcp.WithStringItems()),
		mcp.WithBoolean("frameclock", mcp.Description("Derive the frameclock column before selecting.")),
		mcp.WithNumber("framerate", mcp.Description("Framerate used for the frameclock column.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of events returned.")),
	), h.handleSelectEvents)

	// --- 4. Tool: player_kinematics ---
	s.AddTool(mcp.NewTool("player_kinematics",
		mcp.WithDescription("Rank the entities of a tracking file by distance covered, with top and mean speed."),
		mcp.WithString("path", mcp.Description("Path to the tracking file."), mcp.Required()),
		mcp.WithNumber("framerate", mcp.Description("Frames per second of the tracking data.")),
		mcp.WithString("template", mcp.Description("Pitch template of the coordinates. Defaults to meters.")),
		mcp.WithNumber("length", mcp.Description("Actual pitch length in meters.")),
		mcp.WithNumber("width", mcp.Description("Actual pitch width in meters.")),
		mcp.WithString("difference", mcp.Description("Finite difference scheme."), mcp.Enum("central", "forward")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handlePlayerKinematics)

	// --- 5. Tool: team_shape ---
	s.AddTool(mcp.NewTool("team_shape",
		mcp.WithDescription("Summarize team centroid and stretch index over time windows."),
		mcp.WithString("path", mcp.Description("Path to the tracking file of one team."), mcp.Required()),
		mcp.WithNumber("framerate", mcp.Description("Frames per second of the tracking data.")),
		mcp.WithNumber("window", mcp.Description("Window length in seconds.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated entity indices to leave out, such as the goalkeeper.")),
	), h.handleTeamShape)

	return s
}

// StartMCPServer starts the Touchline MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
