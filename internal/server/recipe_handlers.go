package server

import (
	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateRecipeRequest is the body accepted by POST /recipes.
type CreateRecipeRequest struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Ingredients   []models.Ingredient  `json:"ingredients"`
	Instructions  []models.Instruction `json:"instructions"`
	CookingTime   int                  `json:"cookingTime"`
	Servings      int                  `json:"servings"`
	Image         string               `json:"image"`
	Tags          []string             `json:"tags"`
	ParentRecipe  *string              `json:"parentRecipe"`
	Modifications string               `json:"modifications"`
}

// ForkRecipeRequest is the optional body accepted by POST /recipes/:id/fork.
type ForkRecipeRequest struct {
	Modifications string `json:"modifications"`
}

// LikesResponse is returned by the like toggles.
type LikesResponse struct {
	ID    string       `json:"id"`
	Likes models.Likes `json:"likes"`
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Description Create a recipe. Supplying parentRecipe records it as a fork of an existing recipe.
// @Tags recipes
// @Accept json
// @Produce json
// @Param request body CreateRecipeRequest true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req CreateRecipeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	recipe, err := s.recipeService.CreateRecipe(c.UserContext(), service.CreateRecipeInput{
		UserID:         currentUserID(c),
		Title:          req.Title,
		Description:    req.Description,
		Ingredients:    req.Ingredients,
		Instructions:   req.Instructions,
		CookingTime:    req.CookingTime,
		Servings:       req.Servings,
		Image:          req.Image,
		Tags:           req.Tags,
		ParentRecipeID: req.ParentRecipe,
		Modifications:  req.Modifications,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if recipe.Parent != nil {
		s.notifyOwner(c.UserContext(), recipe.Parent.UserID, recipe.UserID, notifications.EventRecipeForked, map[string]any{
			"recipeId": recipe.Parent.ID,
			"forkId":   recipe.ID,
			"user":     recipe.UserID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// GetRecipes godoc
// @Summary List recipes
// @Description List all recipes, newest first, optionally filtered by tag
// @Tags recipes
// @Produce json
// @Param tag query string false "Tag filter"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Recipe
// @Router /recipes [get]
func (s *Server) GetRecipes(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)
	recipes, err := s.recipeService.ListRecipes(c.UserContext(), service.ListRecipesInput{
		Tag:    c.Query("tag"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipe godoc
// @Summary Get a recipe
// @Description Fetch one recipe with its author and parent populated
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.GetRecipe(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// GetUserRecipes godoc
// @Summary List a user's recipes
// @Tags recipes
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} models.Recipe
// @Router /recipes/user/{userId} [get]
func (s *Server) GetUserRecipes(c *fiber.Ctx) error {
	userID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPaginationLimit)
	recipes, err := s.recipeService.ListUserRecipes(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipes)
}

// GetRecipeForks godoc
// @Summary List forks of a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {array} models.Recipe
// @Router /recipes/{id}/forks [get]
func (s *Server) GetRecipeForks(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, defaultPaginationLimit)
	forks, err := s.recipeService.ListForks(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(forks)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Partial update; only fields present in the body are changed. Owner only.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param request body service.RecipePatch true "Fields to change"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var patch service.RecipePatch
	if err := parseBody(c, &patch); err != nil {
		return nil
	}

	recipe, err := s.recipeService.UpdateRecipe(c.UserContext(), service.UpdateRecipeInput{
		UserID:   currentUserID(c),
		RecipeID: id,
		Patch:    patch,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Description Deletes the recipe and every comment on it. Owner only.
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} object{message=string,id=string,commentsDeleted=int}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.recipeService.DeleteRecipe(c.UserContext(), service.DeleteRecipeInput{
		UserID:   currentUserID(c),
		RecipeID: id,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcast(c.UserContext(), notifications.EventRecipeDeleted, map[string]any{"recipeId": res.Recipe.ID})
	return c.JSON(fiber.Map{
		"message":         "Recipe deleted",
		"id":              res.Recipe.ID,
		"commentsDeleted": res.CommentsDeleted,
	})
}

// ForkRecipe godoc
// @Summary Fork a recipe
// @Description Copy a recipe into a new one owned by the caller
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param request body ForkRecipeRequest false "Fork options"
// @Success 201 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id}/fork [post]
func (s *Server) ForkRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ForkRecipeRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	userID := currentUserID(c)
	fork, err := s.recipeService.ForkRecipe(c.UserContext(), service.ForkRecipeInput{
		UserID:        userID,
		RecipeID:      id,
		Modifications: req.Modifications,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	if fork.Parent != nil {
		s.notifyOwner(c.UserContext(), fork.Parent.UserID, userID, notifications.EventRecipeForked, map[string]any{
			"recipeId": id,
			"forkId":   fork.ID,
			"user":     userID,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fork)
}

// LikeRecipe godoc
// @Summary Like a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} LikesResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id}/like [put]
func (s *Server) LikeRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)
	recipe, err := s.recipeService.LikeRecipe(c.UserContext(), userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.notifyOwner(c.UserContext(), recipe.UserID, userID, notifications.EventRecipeLiked, map[string]any{
		"recipeId": recipe.ID,
		"user":     userID,
		"likes":    len(recipe.Likes),
	})
	return c.JSON(LikesResponse{ID: recipe.ID, Likes: recipe.Likes})
}

// UnlikeRecipe godoc
// @Summary Remove a like from a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} LikesResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /recipes/{id}/unlike [put]
func (s *Server) UnlikeRecipe(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.UnlikeRecipe(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(LikesResponse{ID: recipe.ID, Likes: recipe.Likes})
}
