package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// patternsCmd prints the full aggregate profile as JSON
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Print the aggregate design profile as JSON",
	Long: `Fetch the full aggregate design profile from the styleprofd server and
print it as indented JSON.

Examples:
  stylectl patterns
  stylectl patterns | jq .strings.colors`,
	RunE: runPatterns,
}

// summaryCmd prints the rendered guidance text
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the style consistency guidance text",
	Long: `Fetch the human-readable guidance summary rendered from the aggregate
profile. This is the same text injected into generation prompts.

Examples:
  stylectl summary`,
	RunE: runSummary,
}

// resetCmd discards the accumulated profile
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the accumulated design profile",
	Long: `Reset the server's aggregate profile to empty. The document count
returns to zero and all accumulated values are discarded.

Examples:
  stylectl reset`,
	RunE: runReset,
}

// SummaryResponse matches internal/http/handlers.go SummaryResponse
type SummaryResponse struct {
	Count    int    `json:"count"`
	Guidance string `json:"guidance"`
}

// runPatterns handles the patterns command
func runPatterns(cmd *cobra.Command, args []string) error {
	var profile json.RawMessage
	if err := getJSON("/api/v1/patterns", &profile); err != nil {
		return err
	}

	buf, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(buf))
	return nil
}

// runSummary handles the summary command
func runSummary(cmd *cobra.Command, args []string) error {
	var resp SummaryResponse
	if err := getJSON("/api/v1/patterns/summary", &resp); err != nil {
		return err
	}
	fmt.Println(resp.Guidance)
	return nil
}

// runReset handles the reset command
func runReset(cmd *cobra.Command, args []string) error {
	url := fmt.Sprintf("%s/api/v1/patterns", serverURL)
	httpReq, err := http.NewRequest(http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	fmt.Println("Profile reset")
	return nil
}
