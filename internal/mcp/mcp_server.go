// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Peloton MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, p contract.Portal) *server.MCPServer {
	s := server.NewMCPServer(
		"Peloton Race Results Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := newToolHandler(baseCfg, p)

	// --- 1. Tool: list_races ---
	s.AddTool(mcp.NewTool("list_races",
		mcp.WithDescription("List every race in the portal with its stage count and total length."),
	), h.handleListRaces)

	// --- 2. Tool: stage_ranking ---
	s.AddTool(mcp.NewTool("stage_ranking",
		mcp.WithDescription("Rank the riders of a stage by elapsed time, with adjusted times and points."),
		mcp.WithNumber("stage_id", mcp.Description("Id of the stage to rank."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleStageRanking)

	// --- 3. Tool: race_classification ---
	s.AddTool(mcp.NewTool("race_classification",
		mcp.WithDescription("Get the general, points or mountain classification of a race."),
		mcp.WithNumber("race_id", mcp.Description("Id of the race."), mcp.Required()),
		mcp.WithString("classification", mcp.Description("Classification to order by. Defaults to 'general'."), mcp.Enum("general", "points", "mountain")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleRaceClassification)

	// --- 4. Tool: rider_adjusted_time ---
	s.AddTool(mcp.NewTool("rider_adjusted_time",
		mcp.WithDescription("Get the raw and bunch-adjusted elapsed time of one rider in a stage."),
		mcp.WithNumber("stage_id", mcp.Description("Id of the stage."), mcp.Required()),
		mcp.WithNumber("rider_id", mcp.Description("Id of the rider."), mcp.Required()),
	), h.handleRiderAdjustedTime)

	return s
}

// StartMCPServer starts the Peloton MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, p contract.Portal) error {
	s := NewMCPServer(baseCfg, p)
	return server.ServeStdio(s)
}
