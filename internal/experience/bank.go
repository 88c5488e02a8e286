package experience

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeffbeard/storylift/internal/schemas"
	"github.com/jeffbeard/storylift/internal/types"
)

// LoadStoryBank loads a story bank from a JSON file
func LoadStoryBank(path string) (*types.StoryBank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			Message: fmt.Sprintf("failed to read file %s", path),
			Cause:   err,
		}
	}

	return ParseStoryBank(content)
}

// ParseStoryBank validates content against the import schema and decodes it
func ParseStoryBank(content []byte) (*types.StoryBank, error) {
	if err := schemas.ValidateStoryImport(content); err != nil {
		return nil, &LoadError{
			Message: "story bank does not match schema",
			Cause:   err,
		}
	}

	var bank types.StoryBank
	if err := json.Unmarshal(content, &bank); err != nil {
		return nil, &LoadError{
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}

	return &bank, nil
}
