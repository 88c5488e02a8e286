package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeffbeard/storylift/internal/observability"
	"github.com/jeffbeard/storylift/internal/types"
)

var (
	matchJobID  string
	matchUserID string
	matchFormat string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Propose stories for every requirement of a job",
	Long:  "Scores the user's stories against each requirement of the job and prints the top candidates.",
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().StringVar(&matchJobID, "job", "", "Job description UUID (required)")
	matchCmd.Flags().StringVar(&matchUserID, "user", "", "User UUID (required)")
	matchCmd.Flags().StringVar(&matchFormat, "format", "json", "Output format: json or text")

	if err := matchCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}
	if err := matchCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	jobID, err := parseUUIDFlag("job", matchJobID)
	if err != nil {
		return err
	}
	userID, err := parseUUIDFlag("user", matchUserID)
	if err != nil {
		return err
	}
	if matchFormat != "json" && matchFormat != "text" {
		return fmt.Errorf("--format must be json or text, got %q", matchFormat)
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.withMatcher(); err != nil {
		return err
	}

	matches, err := a.matcher.MatchJob(cmd.Context(), jobID, userID)
	if err != nil {
		return fmt.Errorf("failed to match job: %w", err)
	}

	return writeMatches(cmd.OutOrStdout(), matchFormat, matches)
}

func writeMatches(w io.Writer, format string, matches []types.RequirementMatch) error {
	if format == "text" {
		observability.NewPrinter(w).PrintMatches(matches)
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"matches": matches}); err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}
	return nil
}

func parseUUIDFlag(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s must be a UUID: %w", name, err)
	}
	return id, nil
}
