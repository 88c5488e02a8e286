package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeffbeard/storylift/internal/experience"
	"github.com/jeffbeard/storylift/internal/observability"
)

var (
	importUserID      string
	listRequirementID string
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Manage STAR stories",
}

var storiesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import STAR stories from a JSON file",
	Long:  "Validates the file against the story import schema, trims every field and creates one story per entry. A story that fails to insert is reported and skipped.",
	Args:  cobra.ExactArgs(1),
	RunE:  runStoriesImport,
}

var storiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stories mapped to a requirement",
	RunE:  runStoriesList,
}

func init() {
	storiesImportCmd.Flags().StringVar(&importUserID, "user", "", "Owner user UUID (required)")
	if err := storiesImportCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	storiesListCmd.Flags().StringVar(&listRequirementID, "requirement", "", "Requirement UUID (required)")
	if err := storiesListCmd.MarkFlagRequired("requirement"); err != nil {
		panic(fmt.Sprintf("failed to mark requirement flag as required: %v", err))
	}

	storiesCmd.AddCommand(storiesImportCmd, storiesListCmd)
	rootCmd.AddCommand(storiesCmd)
}

func runStoriesImport(cmd *cobra.Command, args []string) error {
	userID, err := parseUUIDFlag("user", importUserID)
	if err != nil {
		return err
	}

	bank, err := experience.LoadStoryBank(args[0])
	if err != nil {
		return err
	}
	if err := experience.NormalizeStoryBank(bank); err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := experience.NewImporter(a.db, a.logger).Import(cmd.Context(), userID, bank)
	if err != nil {
		return fmt.Errorf("import interrupted: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, s := range result.Created {
		_, _ = fmt.Fprintf(out, "✓ Created story: %q (ID: %s)\n", s.Title, s.ID)
	}
	for _, title := range result.Failed {
		_, _ = fmt.Fprintf(out, "✗ Failed to create story %q\n", title)
	}
	_, _ = fmt.Fprintf(out, "\n%d of %d stories imported\n", len(result.Created), len(bank.Stories))

	if len(result.Failed) > 0 {
		a.logger.Warn("some stories were not imported", zap.Int("failed", len(result.Failed)))
	}
	return nil
}

func runStoriesList(cmd *cobra.Command, _ []string) error {
	requirementID, err := parseUUIDFlag("requirement", listRequirementID)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	stories, err := a.db.ListStoriesForRequirement(cmd.Context(), requirementID)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMappedStories(stories)
	return nil
}
