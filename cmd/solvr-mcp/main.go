package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/use-agent/solvr/models"
)

func main() {
	apiURL := os.Getenv("SOLVR_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:3000"
	}

	s := newServer(strings.TrimRight(apiURL, "/"))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func newServer(apiURL string) *server.MCPServer {
	s := server.NewMCPServer(
		"solvr",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	processURLTool := mcp.NewTool("process_url",
		mcp.WithDescription("Queue a YouTube video or LeetCode problem URL. A PDF with three C++ approaches is generated in the background and emailed to the configured recipient, usually within five minutes."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("YouTube watch URL or LeetCode problem URL"),
		),
	)
	s.AddTool(processURLTool, handleProcessURL(apiURL))

	healthTool := mcp.NewTool("check_health",
		mcp.WithDescription("Report whether the solvr API is up, with its version and uptime."),
	)
	s.AddTool(healthTool, handleCheckHealth(apiURL))

	return s
}

func handleProcessURL(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		body, err := json.Marshal(models.ProcessRequest{URL: url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/process", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")

		respBody, err := do(client, httpReq)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var resp models.ProcessResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if resp.Success != nil && !*resp.Success {
			errMsg := "request rejected"
			if resp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", resp.Error.Code, resp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s for %s. Estimated time: %s. The PDF will arrive by email.",
			resp.Message, url, resp.EstimatedTime)), nil
	}
}

func handleCheckHealth(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"/health", nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}

		respBody, err := do(client, httpReq)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var health models.HealthResponse
		if err := json.Unmarshal(respBody, &health); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("%s %s: %s (up %s)",
			health.Service, health.Version, health.Status, health.Uptime)), nil
	}
}

// do sends req and returns the body. Rejections with a JSON body are
// returned as-is so the caller can report the error code.
func do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
