package validation

import (
	"errors"
	"strings"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecipe() *models.Recipe {
	return &models.Recipe{
		Title:        "Soup",
		Ingredients:  []models.Ingredient{{Name: "water", Quantity: "1", Unit: "l"}},
		Instructions: []models.Instruction{{Step: 1, Text: "Boil"}},
		CookingTime:  20,
		Servings:     2,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	return appErr.Fields
}

func TestValidateRecipe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(r *models.Recipe)
		wantField string
	}{
		{name: "valid", mutate: func(_ *models.Recipe) {}},
		{name: "blank title", mutate: func(r *models.Recipe) { r.Title = "   " }, wantField: "title"},
		{name: "long title", mutate: func(r *models.Recipe) { r.Title = strings.Repeat("a", MaxTitleLength+1) }, wantField: "title"},
		{name: "no ingredients", mutate: func(r *models.Recipe) { r.Ingredients = nil }, wantField: "ingredients"},
		{name: "ingredient without quantity", mutate: func(r *models.Recipe) { r.Ingredients[0].Quantity = "" }, wantField: "ingredients[0].quantity"},
		{name: "unit optional", mutate: func(r *models.Recipe) { r.Ingredients[0].Unit = "" }},
		{name: "no instructions", mutate: func(r *models.Recipe) { r.Instructions = []models.Instruction{} }, wantField: "instructions"},
		{name: "zero step", mutate: func(r *models.Recipe) { r.Instructions[0].Step = 0 }, wantField: "instructions[0].step"},
		{name: "zero cooking time", mutate: func(r *models.Recipe) { r.CookingTime = 0 }, wantField: "cookingTime"},
		{name: "negative servings", mutate: func(r *models.Recipe) { r.Servings = -1 }, wantField: "servings"},
		{name: "blank tag", mutate: func(r *models.Recipe) { r.Tags = []string{"ok", ""} }, wantField: "tags[1]"},
		{name: "long modifications", mutate: func(r *models.Recipe) { r.Modifications = strings.Repeat("m", MaxModificationsLength+1) }, wantField: "modifications"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := validRecipe()
			tc.mutate(r)
			err := ValidateRecipe(r)
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldsOf(t, err), tc.wantField)
		})
	}
}

func TestValidateRecipe_ReportsEveryField(t *testing.T) {
	err := ValidateRecipe(&models.Recipe{})
	fields := fieldsOf(t, err)
	for _, f := range []string{"title", "ingredients", "instructions", "cookingTime", "servings"} {
		assert.Contains(t, fields, f)
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"easy", "soup"}, NormalizeTags([]string{" Easy", "soup", "EASY", ""}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}

func TestValidateModifications(t *testing.T) {
	assert.NoError(t, ValidateModifications("less salt"))
	assert.Contains(t, fieldsOf(t, ValidateModifications(strings.Repeat("x", MaxModificationsLength+1))), "modifications")
}
