// Package validation holds input rules for recipes, folders and comments.
// Failures are reported as field-level validation errors.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"recipebox/internal/models"
)

const (
	MaxTitleLength         = 200
	MaxDescriptionLength   = 5000
	MaxListItems           = 100
	MaxTags                = 20
	MaxTagLength           = 30
	MaxCookingTimeMinutes  = 7 * 24 * 60
	MaxServings            = 1000
	MaxModificationsLength = 2000
)

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return models.NewFieldValidationError(f)
}

func tooLong(s string, max int) bool {
	return utf8.RuneCountInString(s) > max
}

// ValidateRecipe checks a complete recipe document, as created or after a patch is applied.
func ValidateRecipe(r *models.Recipe) error {
	errs := fieldErrors{}

	switch {
	case strings.TrimSpace(r.Title) == "":
		errs.add("title", "Title is required")
	case tooLong(r.Title, MaxTitleLength):
		errs.add("title", fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	}
	if tooLong(r.Description, MaxDescriptionLength) {
		errs.add("description", fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength))
	}

	switch {
	case len(r.Ingredients) == 0:
		errs.add("ingredients", "At least one ingredient is required")
	case len(r.Ingredients) > MaxListItems:
		errs.add("ingredients", fmt.Sprintf("At most %d ingredients are allowed", MaxListItems))
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			errs.add(fmt.Sprintf("ingredients[%d].name", i), "Ingredient name is required")
		}
		if strings.TrimSpace(ing.Quantity) == "" {
			errs.add(fmt.Sprintf("ingredients[%d].quantity", i), "Ingredient quantity is required")
		}
	}

	switch {
	case len(r.Instructions) == 0:
		errs.add("instructions", "At least one instruction is required")
	case len(r.Instructions) > MaxListItems:
		errs.add("instructions", fmt.Sprintf("At most %d instructions are allowed", MaxListItems))
	}
	for i, ins := range r.Instructions {
		if ins.Step < 1 {
			errs.add(fmt.Sprintf("instructions[%d].step", i), "Step must be a positive number")
		}
		if strings.TrimSpace(ins.Text) == "" {
			errs.add(fmt.Sprintf("instructions[%d].text", i), "Instruction text is required")
		}
	}

	if r.CookingTime < 1 || r.CookingTime > MaxCookingTimeMinutes {
		errs.add("cookingTime", fmt.Sprintf("Cooking time must be between 1 and %d minutes", MaxCookingTimeMinutes))
	}
	if r.Servings < 1 || r.Servings > MaxServings {
		errs.add("servings", fmt.Sprintf("Servings must be between 1 and %d", MaxServings))
	}

	if len(r.Tags) > MaxTags {
		errs.add("tags", fmt.Sprintf("At most %d tags are allowed", MaxTags))
	}
	for i, tag := range r.Tags {
		if strings.TrimSpace(tag) == "" || tooLong(tag, MaxTagLength) {
			errs.add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("Tags must be 1-%d characters", MaxTagLength))
		}
	}

	if tooLong(r.Modifications, MaxModificationsLength) {
		errs.add("modifications", fmt.Sprintf("Modifications must be at most %d characters", MaxModificationsLength))
	}

	return errs.err()
}

// ValidateModifications checks the free-text description of a fork's changes.
func ValidateModifications(text string) error {
	if tooLong(text, MaxModificationsLength) {
		return fieldErrors{"modifications": fmt.Sprintf("Modifications must be at most %d characters", MaxModificationsLength)}.err()
	}
	return nil
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
