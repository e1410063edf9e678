package validation

import (
	"fmt"
	"strings"

	"recipebox/internal/models"
)

const (
	MaxFolderNameLength        = 100
	MaxFolderDescriptionLength = 1000
	MaxCommentLength           = 2000
)

// ValidateFolder checks folder name and description.
func ValidateFolder(f *models.Folder) error {
	errs := fieldErrors{}
	switch {
	case strings.TrimSpace(f.Name) == "":
		errs.add("name", "Folder name is required")
	case tooLong(f.Name, MaxFolderNameLength):
		errs.add("name", fmt.Sprintf("Folder name must be at most %d characters", MaxFolderNameLength))
	}
	if tooLong(f.Description, MaxFolderDescriptionLength) {
		errs.add("description", fmt.Sprintf("Description must be at most %d characters", MaxFolderDescriptionLength))
	}
	return errs.err()
}

// ValidateCommentText checks a comment body.
func ValidateCommentText(text string) error {
	errs := fieldErrors{}
	switch {
	case strings.TrimSpace(text) == "":
		errs.add("text", "Comment text is required")
	case tooLong(text, MaxCommentLength):
		errs.add("text", fmt.Sprintf("Comment must be at most %d characters", MaxCommentLength))
	}
	return errs.err()
}
