package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Optional; the server falls back to its defaults.
	_ = godotenv.Load("env/.env")

	fmt.Println("🧪 Testing minerdash MCP Server and Tool Calling")
	fmt.Println("=================================================")
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	serverPath := findServerBinary()
	if serverPath == "" {
		log.Fatal("❌ MCP server binary not found. Run: go build -o minerdash-mcp ./cmd/minerdash-mcp")
	}
	fmt.Println("✅ Test 1: MCP server binary found")

	cmd := exec.Command(serverPath, os.Args[1:]...)
	cmd.Env = os.Environ()
	cmd.Stderr = os.Stderr
	transport := &mcp.CommandTransport{Command: cmd}

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MCP server: %v", err)
	}
	defer session.Close()
	fmt.Println("✅ Test 2: Connected to MCP server")

	fmt.Println("\n✓ Test 3: Listing available tools")
	listResult, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Fatalf("❌ Failed to list tools: %v", err)
	}
	fmt.Printf("  Found %d tools:\n", len(listResult.Tools))
	hasAsk := false
	for _, tool := range listResult.Tools {
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
		if tool.Name == "ask_minerdash" {
			hasAsk = true
		}
	}

	calls := []struct {
		name string
		args map[string]interface{}
	}{
		{"get_fleet_overview", map[string]interface{}{}},
		{"get_status_histogram", map[string]interface{}{}},
		{"get_pdu_groups", map[string]interface{}{}},
		{"get_pdu_summary", map[string]interface{}{}},
		{"get_devices_by_status", map[string]interface{}{"code": 60}},
	}
	for i, c := range calls {
		fmt.Printf("\n✓ Test %d: Testing %s tool\n", i+4, c.name)
		res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: c.name, Arguments: c.args})
		if err != nil {
			fmt.Printf("  ❌ %s failed: %v\n", c.name, err)
			continue
		}
		if res.IsError {
			fmt.Printf("  ❌ %s returned an error result\n", c.name)
		} else {
			fmt.Printf("  ✅ %s called successfully\n", c.name)
		}
		printPreview(res)
	}

	if !hasAsk {
		fmt.Println("\n⚠️  ask_minerdash not offered (GEMINI_API_KEY not set), skipping")
	} else {
		fmt.Println("\n✓ Testing ask_minerdash tool")
		askCtx, askCancel := context.WithTimeout(ctx, 15*time.Second)
		defer askCancel()

		askResult, err := session.CallTool(askCtx, &mcp.CallToolParams{
			Name: "ask_minerdash",
			Arguments: map[string]interface{}{
				"question": "Which PDU has the most miners in a critical state?",
			},
		})
		if err != nil {
			if askCtx.Err() == context.DeadlineExceeded {
				fmt.Println("  ⚠️  Ask tool timed out")
			} else {
				fmt.Printf("  ❌ Ask tool failed: %v\n", err)
			}
		} else {
			fmt.Println("  ✅ Ask tool called successfully")
			printPreview(askResult)
		}
	}

	fmt.Println("\n=================================================")
	fmt.Println("✅ All MCP tool calling tests complete!")
	fmt.Println("\n💡 To test interactively, run: go run ./cmd/mcp-client ./minerdash-mcp")
}

func printPreview(res *mcp.CallToolResult) {
	for i, content := range res.Content {
		if i >= 3 {
			fmt.Printf("  ... and %d more content items\n", len(res.Content)-i)
			break
		}
		switch v := content.(type) {
		case *mcp.TextContent:
			preview := v.Text
			if len(preview) > 200 {
				preview = preview[:200] + "..."
			}
			fmt.Printf("    %s\n", preview)
		default:
			fmt.Printf("    [%T]\n", content)
		}
	}
}

func findServerBinary() string {
	candidates := []string{
		"./minerdash-mcp",
		"../../minerdash-mcp",
		"../../../minerdash-mcp",
	}
	for _, p := range candidates {
		if abs, err := filepath.Abs(p); err == nil {
			if _, err := os.Stat(abs); err == nil {
				return abs
			}
		}
	}
	return ""
}
