package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/liqued/storefront-api/internal/core/domain"
	"github.com/liqued/storefront-api/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type categoryResponse struct {
	Category *ports.CategoryDetail `json:"category"`
}

type createCategoryResponse struct {
	Message    string `json:"message"`
	CategoryID int64  `json:"categoryId"`
}

// List returns all categories ordered by name as a bare array.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}  domain.Category
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Get returns one category with its product count.
//
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  errorBody
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResponse{Category: detail})
}

// Create adds a category.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  createCategoryResponse
// @Failure      400   {object}  errorBody
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	var name string
	if req.Name != nil {
		name = *req.Name
	}

	id, err := h.service.Create(c.Request().Context(), name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createCategoryResponse{Message: "Category created successfully", CategoryID: id})
}

// Update changes the provided fields of a category.
//
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category ID"
// @Param        body  body      categoryRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	update := domain.CategoryUpdate{Name: req.Name, Description: req.Description}
	if err := h.service.Update(c.Request().Context(), id, update); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Category updated successfully"})
}

// Delete removes a category; its products are kept without a category.
//
// @Summary      Delete category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Category ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorBody
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Category deleted successfully"})
}
