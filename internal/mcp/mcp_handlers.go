package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/huangsam/peloton/core"
	"github.com/huangsam/peloton/core/algo"
	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
// The portal is not safe for concurrent use, so every handler holds mu.
type toolHandler struct {
	mu      sync.Mutex
	baseCfg *contract.Config
	portal  contract.Portal
	engine  *core.Engine
}

func newToolHandler(baseCfg *contract.Config, p contract.Portal) *toolHandler {
	return &toolHandler{baseCfg: baseCfg, portal: p, engine: core.NewEngine(p)}
}

// riderTime is the payload of rider_adjusted_time.
type riderTime struct {
	StageID    int           `json:"stage_id"`
	RiderID    int           `json:"rider_id"`
	Registered bool          `json:"registered"`
	Elapsed    time.Duration `json:"elapsed_ns,omitempty"`
	Adjusted   time.Duration `json:"adjusted_ns,omitempty"`
	Display    string        `json:"display,omitempty"`
}

// limit returns the requested limit, falling back to the configured one.
func (h *toolHandler) limit(request mcp.CallToolRequest) int {
	if l := request.GetInt("limit", 0); l > 0 {
		return l
	}
	return h.baseCfg.ResultLimit
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRaces(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	details := make([]schema.RaceDetails, 0)
	for _, id := range h.portal.RaceIDs() {
		d, err := h.portal.RaceDetails(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing races failed: %v", err)), nil
		}
		details = append(details, d)
	}
	return jsonResult(details)
}

func (h *toolHandler) handleStageRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stageID, err := request.RequireInt("stage_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid stage ranking parameters: %v", err)), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.engine.StageStandings(stageID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stage ranking failed: %v", err)), nil
	}
	return jsonResult(algo.Limit(rows, h.limit(request)))
}

func (h *toolHandler) handleRaceClassification(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raceID, err := request.RequireInt("race_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid classification parameters: %v", err)), nil
	}
	classification := h.baseCfg.Classification
	if c := request.GetString("classification", ""); c != "" {
		classification = schema.Classification(c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rows, err := h.engine.RaceStandings(raceID, classification)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("race classification failed: %v", err)), nil
	}
	return jsonResult(algo.Limit(rows, h.limit(request)))
}

func (h *toolHandler) handleRiderAdjustedTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stageID, err := request.RequireInt("stage_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rider time parameters: %v", err)), nil
	}
	riderID, err := request.RequireInt("rider_id")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid rider time parameters: %v", err)), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out := riderTime{StageID: stageID, RiderID: riderID}
	elapsed, ok, err := h.engine.RawElapsed(stageID, riderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rider time failed: %v", err)), nil
	}
	if !ok {
		return jsonResult(out)
	}
	adjusted, _, err := h.engine.AdjustedElapsed(stageID, riderID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rider time failed: %v", err)), nil
	}
	out.Registered = true
	out.Elapsed = elapsed
	out.Adjusted = adjusted
	out.Display = contract.FormatDuration(adjusted)
	return jsonResult(out)
}
