package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var generateBrief string

// generateCmd requests a profile-guided design generation
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a design guided by the aggregate profile",
	Long: `Ask the styleprofd server to generate a new design. The server composes
the design brief with guidance rendered from the aggregate profile and
forwards it to the configured LLM.

The brief comes from --brief, or from stdin when --brief is not set.

Examples:
  stylectl generate --brief "a pricing page with three tiers"
  cat brief.txt | stylectl generate`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateBrief, "brief", "", "design brief text")
}

// GenerateRequest matches internal/http/handlers.go GenerateRequest
type GenerateRequest struct {
	Brief string `json:"brief"`
}

// GenerateResponse matches internal/http/handlers.go GenerateResponse
type GenerateResponse struct {
	Output        string `json:"output"`
	DocumentCount int    `json:"document_count"`
}

// runGenerate handles the generate command
func runGenerate(cmd *cobra.Command, args []string) error {
	brief := generateBrief
	if brief == "" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read brief from stdin: %w", err)
		}
		brief = string(content)
	}
	if brief == "" {
		return fmt.Errorf("no design brief provided")
	}

	var resp GenerateResponse
	if err := postJSON("/api/v1/generate", GenerateRequest{Brief: brief}, &resp); err != nil {
		return err
	}

	fmt.Print(resp.Output)
	if resp.DocumentCount > 0 {
		fmt.Fprintf(os.Stderr, "\n[stylectl] Guided by %d analyzed document(s)\n", resp.DocumentCount)
	}
	return nil
}
