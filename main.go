// ABOUTME: Entry point for the fomo server, MCP server, and CLI
// ABOUTME: Hands control to the cobra command tree
package main

import "github.com/harperreed/fomo/cli"

func main() {
	cli.Execute()
}
