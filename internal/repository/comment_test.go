package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"recipebox/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	comment := &models.Comment{Text: "Nice soup!", RecipeID: "r1", UserID: "u1"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), comment)
	assert.NoError(t, err)
	assert.NotEmpty(t, comment.ID)
	assert.NotNil(t, comment.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByRecipe(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE recipe_id = $1 ORDER BY created_at desc`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipe_id", "user_id", "text", "likes"}).
			AddRow("c2", "r1", "u2", "Second", `[{"user":"u1","createdAt":"2024-01-01T00:00:00Z"}]`).
			AddRow("c1", "r1", "u1", "First", nil))

	comments, err := repo.ListByRecipe(context.Background(), "r1", 20, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Second", comments[0].Text)
	assert.True(t, comments[0].Likes.Has("u1"))
	assert.NotNil(t, comments[1].Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_DeleteByRecipe(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments" WHERE recipe_id = $1`)).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.DeleteByRecipe(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_UpdateLikes_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "comments" SET .*"likes"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateLikes(context.Background(), "gone", models.Likes{})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
