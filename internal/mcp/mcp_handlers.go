package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mlevkov/glucodip/core"
	"github.com/mlevkov/glucodip/internal/contract"
	"github.com/mlevkov/glucodip/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyTimeWindow overrides the configured window from tool arguments.
// Values accept the same forms as the CLI flags: absolute ISO8601 or
// relative 'N units ago'.
func applyTimeWindow(cfg *contract.Config, request mcp.CallToolRequest) error {
	now := time.Now()
	if s := request.GetString("start", ""); s != "" {
		t, err := time.Parse(contract.DateTimeFormat, s)
		if err != nil {
			t, err = contract.ParseRelativeTime(s, now)
			if err != nil {
				return fmt.Errorf("invalid start %q: expected ISO8601 or 'N units ago'", s)
			}
		}
		cfg.StartTime = t
	}
	if s := request.GetString("end", ""); s != "" {
		t, err := time.Parse(contract.DateTimeFormat, s)
		if err != nil {
			t, err = contract.ParseRelativeTime(s, now)
			if err != nil {
				return fmt.Errorf("invalid end %q: expected ISO8601 or 'N units ago'", s)
			}
		}
		cfg.EndTime = t
	}
	if cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time %s is after end time %s", cfg.StartTime, cfg.EndTime)
	}
	return nil
}

func (h *toolHandler) handleGlucoseOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyTimeWindow(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := core.GetStatsResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListCrashes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyTimeWindow(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if t := request.GetFloat("threshold", 0); t > 0 {
		cfg.DangerThreshold = t
	}

	ranked, summary, err := core.GetCrashResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	payload := struct {
		Crashes []schema.EnrichedCrashEvent `json:"crashes"`
		Summary schema.CrashSummary         `json:"summary"`
	}{
		Crashes: schema.EnrichCrashes(ranked),
		Summary: summary,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleMealResponses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyTimeWindow(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if d := request.GetString("day", ""); d != "" {
		if _, err := time.Parse(schema.DayLayout, d); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid day %q: expected YYYY-MM-DD", d)), nil
		}
		cfg.Day = d
	}
	if g := request.GetString("group", ""); g != "" {
		cfg.GroupFilter = g
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	ranked, err := core.GetMealResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	enriched := schema.EnrichMeals(ranked)
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleFoodTriggers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyTimeWindow(cfg, request); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	triggers, err := core.GetTriggerResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(triggers, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
