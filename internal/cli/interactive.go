package cli

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/marketgrid/indexflow/config"
	"github.com/marketgrid/indexflow/internal/universe"
)

// runInteractiveMode prompts for a universe and runs it.
func runInteractiveMode(cfg *config.Config) error {
	options := make([]string, 0, len(universe.All())+1)
	bySlug := make(map[string]universe.Universe)
	for _, u := range universe.All() {
		label := fmt.Sprintf("%s (%s)", u.Name, u.Slug)
		options = append(options, label)
		bySlug[label] = u
	}
	const allOption = "All universes"
	options = append(options, allOption)

	var choice string
	prompt := &survey.Select{
		Message: "Which universe do you want to extract?",
		Options: options,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return err
	}

	if choice == allOption {
		return runUniverses(cfg, universe.All())
	}
	return runUniverses(cfg, []universe.Universe{bySlug[choice]})
}
