// ABOUTME: Help display for the calldeck CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for polished usage output and envStatus for override detection.
package main

import (
	"fmt"
	"io"
	"os"
)

const calldeckASCII = `
   ____      _ _     _           _
  / ___|__ _| | | __| | ___  ___| | __
 | |   / _` + "`" + ` | | |/ _` + "`" + ` |/ _ \/ __| |/ /
 | |__| (_| | | | (_| |  __/ (__|   <
  \____\__,_|_|_|\__,_|\___|\___|_|\_\
`

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprint(w, calldeckASCII)
	fmt.Fprintf(w, "calldeck %s: terminal dashboard for negotiation call metrics\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  calldeck [flags]                    Open the dashboard")
	fmt.Fprintln(w, "  calldeck serve-demo [flags]         Serve a local demo metrics API")
	fmt.Fprintln(w, "  calldeck export -o <file.xlsx>      Export KPIs and recent calls")
	fmt.Fprintln(w, "  calldeck version                    Print version and exit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --base-url <url>      Metrics API base URL (default: http://127.0.0.1:8000)")
	fmt.Fprintln(w, "  --api-key <key>       x-api-key header value (default: demo-key)")
	fmt.Fprintln(w, "  --limit <n>           Recent calls to fetch: 10, 20, 50, 100 (default: 20)")
	fmt.Fprintln(w, "  --config <file>       YAML config file")
	fmt.Fprintln(w, "  --log-level <level>   debug, info, warn, error (default: info)")
	fmt.Fprintln(w, "  --log-file <path>     Log file (the terminal is reserved for the UI)")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Demo Server Flags:")
	fmt.Fprintln(w, "  --addr <host:port>    Listen address (default: 127.0.0.1:8000)")
	fmt.Fprintln(w, "  --db <path>           SQLite database path")
	fmt.Fprintln(w, "  --seed <file.yaml>    Seed calls (default: built-in samples)")
	fmt.Fprintln(w, "  --api-keys <k1,k2>    Accepted API keys")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Keys:")
	fmt.Fprintln(w, "  r refresh   l cycle limit   / filter   i call id   K api key")
	fmt.Fprintln(w, "  1/2 tabs    enter open call   esc leave input   ? help   q quit")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  calldeck serve-demo &")
	fmt.Fprintln(w, "  calldeck --limit 50")
	fmt.Fprintln(w, "  calldeck --base-url https://metrics.example.com --api-key $KEY")
	fmt.Fprintln(w, "  calldeck export -o weekly.xlsx --limit 100")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  CALLDECK_BASE_URL     %s\n", envStatus("CALLDECK_BASE_URL"))
	fmt.Fprintf(w, "  CALLDECK_API_KEY      %s\n", envStatus("CALLDECK_API_KEY"))
	fmt.Fprintf(w, "  CALLDECK_LIMIT        %s\n", envStatus("CALLDECK_LIMIT"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  .env files in the working directory and its parents are loaded first.")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Docs: https://github.com/2389-research/calldeck")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
