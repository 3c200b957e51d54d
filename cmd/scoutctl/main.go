// Command scoutctl is the CLI for Scout debugging and maintenance.
//
// Usage:
//
//	scoutctl                      Show help
//	scoutctl search <query>...    One-shot searches against the endpoint
//	scoutctl link encode|decode   Share-link round-trip tool
//	scoutctl history              Recent searches from the local store
package main

import (
	"fmt"
	"os"
)

const usage = `scoutctl — Scout debug & maintenance CLI

Usage:
  scoutctl <command> [flags]

Commands:
  search      One-shot candidate searches (multiple queries run concurrently)
  link        Encode or decode share-link query strings
  history     Recent searches recorded by the TUI

Environment:
  SCOUT_ENDPOINT    Search endpoint (overrides config)
  SCOUT_API_TOKEN   Bearer token for the endpoint

Run 'scoutctl <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "search":
		runSearch()
	case "link":
		runLink()
	case "history":
		runHistory()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "scoutctl: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
