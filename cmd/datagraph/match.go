package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/datagraph/internal/matching"
	"github.com/jonathan/datagraph/internal/observability"
	"github.com/jonathan/datagraph/internal/schemas"
	"github.com/jonathan/datagraph/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Select candidates for a project from a JSON or YAML file",
	Long:  "Runs the scorer and selector over a MatchRequest file (JSON, or YAML when the name ends in .yaml/.yml) without touching the database, producing a MatchResponse JSON sorted by score.",
	RunE:  runMatchCmd,
}

var (
	matchInput   string
	matchOutput  string
	matchSchema  string
	matchExplain bool
	matchVerbose bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchInput, "input", "i", "", "Path to input MatchRequest JSON or YAML file (required)")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output MatchResponse JSON file (defaults to stdout)")
	matchCmd.Flags().StringVar(&matchSchema, "schema", "", "Validate the input against this schema file instead of the built-in one")
	matchCmd.Flags().BoolVar(&matchExplain, "explain", false, "Include a score breakdown for every candidate")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print project, scores and selection boxes to stderr")

	if err := matchCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatchCmd(cmd *cobra.Command, _ []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	// 1. Validate input against schema
	if err := validateMatchInput(matchInput, matchSchema); err != nil {
		return err
	}

	// 2. Load request
	req, err := loadMatchRequest(matchInput)
	if err != nil {
		return err
	}

	var printer *observability.Printer
	if matchVerbose {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
		printer.PrintProject(&req.Project)
	}

	// 3. Select
	resp, err := buildMatchResponse(rt.matcher, req, matchExplain || matchVerbose)
	if err != nil {
		return err
	}

	if printer != nil {
		printer.PrintRanking(resp.Explanations, rt.matcher.Threshold())
		printer.PrintSelection(resp)
		if !matchExplain {
			resp.Explanations = nil
		}
	}

	// 4. Write output
	if matchOutput == "" {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	if err := writeMatchResponse(matchOutput, resp); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Selected %d candidates to %s\n", len(resp.Selected), matchOutput)
	return nil
}

func isYAMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// validateMatchInput checks the input file against the built-in request schema,
// or against schemaPath when one is given. YAML input is converted to JSON first.
func validateMatchInput(inputPath, schemaPath string) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", inputPath, err)
	}
	if isYAMLFile(inputPath) {
		if content, err = yamlToJSON(content); err != nil {
			return fmt.Errorf("failed to parse input YAML %s: %w", inputPath, err)
		}
	}

	if schemaPath == "" {
		err = schemas.ValidateMatchRequest(content)
	} else {
		var schema []byte
		schema, err = os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", schemaPath, err)
		}
		err = schemas.ValidateJSONString(string(schema), string(content))
	}
	if err != nil {
		return fmt.Errorf("input does not match schema: %w", err)
	}
	return nil
}

// yamlToJSON re-encodes a YAML document so it can go through the JSON schema.
func yamlToJSON(content []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// loadMatchRequest reads and validates a MatchRequest file, decoding YAML or JSON by extension.
func loadMatchRequest(path string) (*types.MatchRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	var req types.MatchRequest
	if isYAMLFile(path) {
		if err := yaml.Unmarshal(content, &req); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match request YAML: %w", err)
		}
	} else if err := json.Unmarshal(content, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match request JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match request: %w", err)
	}
	return &req, nil
}

// buildMatchResponse runs the selector. With explain set it also ranks every candidate,
// qualified or not.
func buildMatchResponse(matcher *matching.Matcher, req *types.MatchRequest, explain bool) (*types.MatchResponse, error) {
	sel, err := matcher.SelectDetailed(&req.Project, req.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to select candidates: %w", err)
	}

	resp := &types.MatchResponse{
		ProjectID:      req.Project.ID,
		RemainingSlots: sel.Remaining,
		Considered:     sel.Considered,
		Qualified:      sel.Qualified,
		Selected:       sel.Selected,
	}

	if explain {
		ranked, err := matcher.Rank(&req.Project.ProjectRequirements, req.Candidates)
		if err != nil {
			return nil, fmt.Errorf("failed to rank candidates: %w", err)
		}
		resp.Explanations = ranked
	}

	return resp, nil
}

func writeMatchResponse(path string, resp *types.MatchResponse) error {
	jsonOutput, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal match response to JSON: %w", err)
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}

	if err := os.WriteFile(path, jsonOutput, 0644); err != nil {
		return fmt.Errorf("failed to write match response to output file %s: %w", path, err)
	}

	// Output validation is a safety check, not a requirement
	if err := schemas.ValidateMatchResponse(jsonOutput); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: Output validation failed: %v\n", err)
	}
	return nil
}
