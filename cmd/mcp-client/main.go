package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	flag.Parse()
	args := flag.Args()

	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mcp-client <server-command> [<args>]")
		fmt.Fprintln(os.Stderr, "Example: mcp-client ./minerdash-mcp -config minerdash.yaml")
		os.Exit(2)
	}

	ctx := context.Background()

	// Start the server as a subprocess
	cmd := exec.Command(args[0], args[1:]...)
	transport := &mcp.CommandTransport{Command: cmd}

	// Create MCP client
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "minerdash-client",
		Version: "1.0.0",
	}, nil)

	// Connect to the server
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer session.Close()

	fmt.Println("Connected to minerdash MCP Server!")
	fmt.Println("Available commands:")
	fmt.Println("  /tools             - List available tools")
	fmt.Println("  /overview          - Snapshot summary and status histogram")
	fmt.Println("  /histogram         - Device count per status category")
	fmt.Println("  /pdu [n]           - Ports per PDU, optionally one PDU")
	fmt.Println("  /miner <pdu> <port> - Detail view of one miner")
	fmt.Println("  /summary           - Per-PDU aggregates")
	fmt.Println("  /status <code>     - Miners reporting one status code")
	fmt.Println("  /exit              - Exit the client")
	fmt.Println("  <question>         - Ask a question about the fleet")
	fmt.Println()

	// Interactive REPL
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch {
		case input == "/exit":
			fmt.Println("Goodbye!")
			return

		case input == "/tools":
			listTools(ctx, session)

		case input == "/overview":
			callTool(ctx, session, "get_fleet_overview", map[string]interface{}{})

		case input == "/histogram":
			callTool(ctx, session, "get_status_histogram", map[string]interface{}{})

		case input == "/summary":
			callTool(ctx, session, "get_pdu_summary", map[string]interface{}{})

		case strings.HasPrefix(input, "/pdu"):
			parts := strings.Fields(input)
			args := map[string]interface{}{}
			if len(parts) > 1 {
				n, err := strconv.Atoi(parts[1])
				if err != nil {
					fmt.Println("Usage: /pdu [n]")
					continue
				}
				args["pdu"] = n
			}
			callTool(ctx, session, "get_pdu_groups", args)

		case strings.HasPrefix(input, "/status"):
			parts := strings.Fields(input)
			if len(parts) != 2 {
				fmt.Println("Usage: /status <code>")
				continue
			}
			code, err := strconv.Atoi(parts[1])
			if err != nil {
				fmt.Println("Usage: /status <code>")
				continue
			}
			callTool(ctx, session, "get_devices_by_status", map[string]interface{}{"code": code})

		case strings.HasPrefix(input, "/miner"):
			parts := strings.Fields(input)
			if len(parts) != 3 {
				fmt.Println("Usage: /miner <pdu> <port>")
				continue
			}
			pdu, err1 := strconv.Atoi(parts[1])
			port, err2 := strconv.Atoi(parts[2])
			if err1 != nil || err2 != nil {
				fmt.Println("Usage: /miner <pdu> <port>")
				continue
			}
			callTool(ctx, session, "get_miner", map[string]interface{}{
				"pdu":  pdu,
				"port": port,
			})

		default:
			// Treat as a question for ask_minerdash
			callTool(ctx, session, "ask_minerdash", map[string]interface{}{
				"question": input,
			})
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Scanner error: %v", err)
	}
}

func listTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("Available Tools:")
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			log.Printf("Error listing tools: %v", err)
			return
		}
		fmt.Printf("  - %s: %s\n", tool.Name, tool.Description)
	}
	fmt.Println()
}

func callTool(ctx context.Context, session *mcp.ClientSession, toolName string, args map[string]interface{}) {
	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		log.Printf("Error calling tool: %v", err)
		return
	}

	printResult(result)
}

func printResult(result *mcp.CallToolResult) {
	if result.IsError {
		fmt.Printf("❌ Error: ")
	} else {
		fmt.Printf("✅ Result: ")
	}

	// Try to pretty-print the content
	for _, content := range result.Content {
		switch v := content.(type) {
		case *mcp.TextContent:
			fmt.Println(v.Text)
		default:
			// Try JSON marshaling for other types
			jsonData, err := json.MarshalIndent(content, "", "  ")
			if err != nil {
				fmt.Printf("%+v\n", content)
			} else {
				fmt.Println(string(jsonData))
			}
		}
	}
	fmt.Println()
}
