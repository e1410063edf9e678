package server

import (
	"net/http"
	"testing"

	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) createRecipe(t *testing.T, token string, body fiber.Map) models.Recipe {
	t.Helper()
	status, raw := ts.do(t, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[models.Recipe](t, raw)
}

func TestRecipeHandlers_CreateAndRead(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")

	created := ts.createRecipe(t, alice, soupBody())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "alice", created.UserID)
	assert.Equal(t, []string{"soup", "vegan"}, created.Tags)
	assert.False(t, created.IsForked)
	require.NotNil(t, created.Author)
	assert.Equal(t, "Alice", created.Author.Name)

	status, raw := ts.do(t, http.MethodGet, "/api/recipes/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.Title, decode[models.Recipe](t, raw).Title)

	status, raw = ts.do(t, http.MethodGet, "/api/recipes?tag=SOUP", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Recipe](t, raw), 1)

	status, raw = ts.do(t, http.MethodGet, "/api/recipes?tag=dessert", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]models.Recipe](t, raw))

	status, raw = ts.do(t, http.MethodGet, "/api/recipes/user/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Recipe](t, raw), 1)

	status, raw = ts.do(t, http.MethodGet, "/api/recipes/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, decode[models.ErrorResponse](t, raw).Code)
}

func TestRecipeHandlers_CreateValidation(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")

	body := soupBody()
	body["title"] = "  "
	body["servings"] = 0
	status, raw := ts.do(t, http.MethodPost, "/api/recipes", alice, body)
	require.Equal(t, http.StatusBadRequest, status)
	resp := decode[models.ErrorResponse](t, raw)
	assert.Equal(t, models.CodeValidation, resp.Code)
	assert.Contains(t, resp.Fields, "title")
	assert.Contains(t, resp.Fields, "servings")

	body = soupBody()
	body["parentRecipe"] = "does-not-exist"
	status, _ = ts.do(t, http.MethodPost, "/api/recipes", alice, body)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRecipeHandlers_UpdateOwnerOnly(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	recipe := ts.createRecipe(t, alice, soupBody())

	status, _ := ts.do(t, http.MethodPut, "/api/recipes/"+recipe.ID, bob, fiber.Map{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := ts.do(t, http.MethodPut, "/api/recipes/"+recipe.ID, alice, fiber.Map{"title": "Roasted Tomato Soup"})
	require.Equal(t, http.StatusOK, status, string(raw))
	updated := decode[models.Recipe](t, raw)
	assert.Equal(t, "Roasted Tomato Soup", updated.Title)
	assert.Equal(t, recipe.Servings, updated.Servings)
	assert.Equal(t, recipe.Ingredients, updated.Ingredients)

	status, _ = ts.do(t, http.MethodPut, "/api/recipes/"+recipe.ID, alice, fiber.Map{"cookingTime": -1})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRecipeHandlers_ForkFlow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	original := ts.createRecipe(t, alice, soupBody())

	status, raw := ts.do(t, http.MethodPost, "/api/recipes/"+original.ID+"/fork", bob, fiber.Map{"modifications": "More garlic"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	fork := decode[models.Recipe](t, raw)
	assert.NotEqual(t, original.ID, fork.ID)
	assert.Equal(t, "bob", fork.UserID)
	assert.True(t, fork.IsForked)
	require.NotNil(t, fork.ParentRecipeID)
	assert.Equal(t, original.ID, *fork.ParentRecipeID)
	assert.Equal(t, "More garlic", fork.Modifications)
	assert.Empty(t, fork.Likes)

	// A fork without a body records the default description.
	status, raw = ts.do(t, http.MethodPost, "/api/recipes/"+original.ID+"/fork", bob, nil)
	require.Equal(t, http.StatusCreated, status)
	second := decode[models.Recipe](t, raw)
	assert.Equal(t, models.DefaultForkModifications, second.Modifications)
	assert.NotEqual(t, fork.ID, second.ID)

	status, raw = ts.do(t, http.MethodGet, "/api/recipes/"+original.ID+"/forks", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Recipe](t, raw), 2)

	status, _ = ts.do(t, http.MethodPost, "/api/recipes/missing/fork", bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRecipeHandlers_LikeToggles(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	recipe := ts.createRecipe(t, alice, soupBody())
	likePath := "/api/recipes/" + recipe.ID + "/like"
	unlikePath := "/api/recipes/" + recipe.ID + "/unlike"

	status, raw := ts.do(t, http.MethodPut, likePath, bob, nil)
	require.Equal(t, http.StatusOK, status)
	likes := decode[LikesResponse](t, raw)
	require.Len(t, likes.Likes, 1)
	assert.Equal(t, "bob", likes.Likes[0].User)

	status, raw = ts.do(t, http.MethodPut, likePath, alice, nil)
	require.Equal(t, http.StatusOK, status)
	likes = decode[LikesResponse](t, raw)
	require.Len(t, likes.Likes, 2)
	assert.Equal(t, "alice", likes.Likes[0].User, "newest like first")

	status, raw = ts.do(t, http.MethodPut, likePath, bob, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonAlreadyLiked, decode[models.ErrorResponse](t, raw).Reason)

	status, raw = ts.do(t, http.MethodPut, unlikePath, bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[LikesResponse](t, raw).Likes, 1)

	status, raw = ts.do(t, http.MethodPut, unlikePath, bob, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, models.ReasonNotYetLiked, decode[models.ErrorResponse](t, raw).Reason)
}

func TestRecipeHandlers_DeleteCascadesComments(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.token(t, "alice", "Alice")
	bob := ts.token(t, "bob", "Bob")
	doomed := ts.createRecipe(t, alice, soupBody())
	kept := ts.createRecipe(t, alice, soupBody())

	for _, text := range []string{"Lovely", "Too salty"} {
		status, _ := ts.do(t, http.MethodPost, "/api/comments/"+doomed.ID, bob, CommentRequest{Text: text})
		require.Equal(t, http.StatusCreated, status)
	}
	status, _ := ts.do(t, http.MethodPost, "/api/comments/"+kept.ID, bob, CommentRequest{Text: "Great"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = ts.do(t, http.MethodDelete, "/api/recipes/"+doomed.ID, bob, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, raw := ts.do(t, http.MethodDelete, "/api/recipes/"+doomed.ID, alice, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	body := decode[map[string]any](t, raw)
	assert.Equal(t, doomed.ID, body["id"])
	assert.EqualValues(t, 2, body["commentsDeleted"])

	status, _ = ts.do(t, http.MethodGet, "/api/recipes/"+doomed.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = ts.do(t, http.MethodGet, "/api/comments/"+doomed.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = ts.do(t, http.MethodGet, "/api/comments/"+kept.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]models.Comment](t, raw), 1)
}
