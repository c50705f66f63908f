// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mlevkov/glucodip/internal/contract"
)

// NewMCPServer initializes and configures the Glucodip MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Glucodip Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: glucose_overview ---
	s.AddTool(mcp.NewTool("glucose_overview",
		mcp.WithDescription("Summarize the glucose series: mean, variability, time in range, GMI and the crash summary."),
		mcp.WithString("start", mcp.Description("Start of the analysis window (ISO8601 or 'N units ago').")),
		mcp.WithString("end", mcp.Description("End of the analysis window (ISO8601 or 'N units ago').")),
	), h.handleGlucoseOverview)

	// --- 2. Tool: list_crashes ---
	s.AddTool(mcp.NewTool("list_crashes",
		mcp.WithDescription("Detect glucose crash events and rank them by drop magnitude."),
		mcp.WithString("start", mcp.Description("Start of the analysis window.")),
		mcp.WithString("end", mcp.Description("End of the analysis window.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
		mcp.WithNumber("threshold", mcp.Description("Danger-zone velocity threshold in mg/dL per minute (magnitude).")),
	), h.handleListCrashes)

	// --- 3. Tool: meal_responses ---
	s.AddTool(mcp.NewTool("meal_responses",
		mcp.WithDescription("Analyze per-meal glucose responses: rise, peak, drop and crash detection per meal."),
		mcp.WithString("start", mcp.Description("Start of the analysis window.")),
		mcp.WithString("end", mcp.Description("End of the analysis window.")),
		mcp.WithString("day", mcp.Description("Filter to one day (YYYY-MM-DD).")),
		mcp.WithString("group", mcp.Description("Filter to one meal group (e.g. Breakfast).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleMealResponses)

	// --- 4. Tool: food_triggers ---
	s.AddTool(mcp.NewTool("food_triggers",
		mcp.WithDescription("Rank foods eaten in the window before crash events as trigger candidates."),
		mcp.WithString("start", mcp.Description("Start of the analysis window.")),
		mcp.WithString("end", mcp.Description("End of the analysis window.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleFoodTriggers)

	return s
}

// StartMCPServer starts the Glucodip MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
