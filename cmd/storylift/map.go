package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	mapStoryID       string
	mapRequirementID string
	mapRemove        bool
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a story to a requirement",
	Long:  "Records that a story evidences a requirement. Mapping twice is a no-op; --remove deletes the mapping.",
	RunE:  runMap,
}

func init() {
	mapCmd.Flags().StringVar(&mapStoryID, "story", "", "Story UUID (required)")
	mapCmd.Flags().StringVar(&mapRequirementID, "requirement", "", "Requirement UUID (required)")
	mapCmd.Flags().BoolVar(&mapRemove, "remove", false, "Remove the mapping instead of creating it")

	if err := mapCmd.MarkFlagRequired("story"); err != nil {
		panic(fmt.Sprintf("failed to mark story flag as required: %v", err))
	}
	if err := mapCmd.MarkFlagRequired("requirement"); err != nil {
		panic(fmt.Sprintf("failed to mark requirement flag as required: %v", err))
	}

	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, _ []string) error {
	storyID, err := parseUUIDFlag("story", mapStoryID)
	if err != nil {
		return err
	}
	requirementID, err := parseUUIDFlag("requirement", mapRequirementID)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.withMatcher(); err != nil {
		return err
	}

	if mapRemove {
		if !a.matcher.UnmapStory(cmd.Context(), storyID, requirementID) {
			return fmt.Errorf("failed to unmap story from requirement")
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Story unmapped from requirement successfully")
		return nil
	}

	if !a.matcher.MapStory(cmd.Context(), storyID, requirementID) {
		return fmt.Errorf("failed to map story to requirement")
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Story mapped to requirement successfully")
	return nil
}
