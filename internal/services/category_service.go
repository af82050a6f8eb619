package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/optional"
	"fintrack/internal/pagination"
	"fintrack/internal/repository"
)

// CreateCategoryRequest represents the request payload for creating a category
type CreateCategoryRequest struct {
	Name     string              `json:"name" binding:"required,min=1,max=255"`
	Type     models.CategoryType `json:"type" binding:"required,category_type"`
	ParentID *string             `json:"parent_id" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
// Sending parent_id as null moves the category to the top level.
type UpdateCategoryRequest struct {
	Name     optional.Value[string]              `json:"name" binding:"omitempty,min=1,max=255" swaggertype:"string"`
	Type     optional.Value[models.CategoryType] `json:"type" binding:"omitempty,category_type" swaggertype:"string"`
	ParentID optional.Value[string]              `json:"parent_id" binding:"omitempty,uuid" swaggertype:"string"`
}

// CategoryResponse represents a category in the response
type CategoryResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Type      models.CategoryType `json:"type"`
	ParentID  *string             `json:"parent_id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func newCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// categoryService handles category-related business logic.
type categoryService struct {
	categories *repository.Repository[models.Category, *models.Category]
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{categories: repository.New[models.Category](db)}
}

// ListCategories returns the user's categories in creation order.
func (s *categoryService) ListCategories(ctx context.Context, userID string, page pagination.PageRequest) ([]CategoryResponse, error) {
	categories, err := s.categories.List(ctx, userID, pagination.Paginate(page))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, newCategoryResponse(&categories[i]))
	}
	return out, nil
}

// GetCategory retrieves a category by ID for a specific user
func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID string) (*CategoryResponse, error) {
	category, err := s.categories.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrCategoryNotFound)
	}
	resp := newCategoryResponse(category)
	return &resp, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(ctx context.Context, userID string, req CreateCategoryRequest) (*CategoryResponse, error) {
	// If parentID is provided, check that it exists and belongs to the user
	if req.ParentID != nil {
		if err := s.requireParent(ctx, userID, *req.ParentID); err != nil {
			return nil, err
		}
	}

	category := &models.Category{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
	}
	if err := s.categories.Create(ctx, userID, category); err != nil {
		return nil, mapRepoError(err, apperrors.ErrCategoryNotFound)
	}

	resp := newCategoryResponse(category)
	return &resp, nil
}

// UpdateCategory applies the fields present in req to an existing category.
func (s *categoryService) UpdateCategory(ctx context.Context, userID, categoryID string, req UpdateCategoryRequest) (*CategoryResponse, error) {
	if err := rejectNulls(map[string]bool{
		"name": req.Name.Null,
		"type": req.Type.Null,
	}); err != nil {
		return nil, err
	}

	if _, err := s.categories.Get(ctx, userID, categoryID); err != nil {
		return nil, mapRepoError(err, apperrors.ErrCategoryNotFound)
	}

	updates := make(map[string]interface{})
	if req.Name.Set {
		updates["name"] = req.Name.Value
	}
	if req.Type.Set {
		updates["type"] = req.Type.Value
	}
	if req.ParentID.Set {
		if req.ParentID.Null {
			updates["parent_id"] = nil
		} else {
			if err := s.requireParent(ctx, userID, req.ParentID.Value); err != nil {
				return nil, err
			}
			if err := s.checkCycle(ctx, userID, categoryID, req.ParentID.Value); err != nil {
				return nil, err
			}
			updates["parent_id"] = req.ParentID.Value
		}
	}

	category, err := s.categories.Update(ctx, userID, categoryID, updates)
	if err != nil {
		return nil, mapRepoError(err, apperrors.ErrCategoryNotFound)
	}
	resp := newCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory removes a category. Children move to the top level,
// transactions lose their category and budgets for it are removed.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	deleted, err := s.categories.Delete(ctx, userID, categoryID)
	if err != nil {
		return mapRepoError(err, apperrors.ErrCategoryNotFound)
	}
	if !deleted {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (s *categoryService) requireParent(ctx context.Context, userID, parentID string) error {
	ok, err := s.categories.Exists(ctx, userID, parentID)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return apperrors.WithMessage(apperrors.ErrCategoryNotFound, "Parent category not found")
	}
	return nil
}

// checkCycle walks up from parentID and fails if categoryID is reached.
func (s *categoryService) checkCycle(ctx context.Context, userID, categoryID, parentID string) error {
	seen := map[string]bool{}
	current := &parentID
	for current != nil {
		if *current == categoryID {
			return apperrors.ErrCategoryCycle
		}
		if seen[*current] {
			return nil
		}
		seen[*current] = true

		ancestor, err := s.categories.Get(ctx, userID, *current)
		if err != nil {
			return mapRepoError(err, apperrors.ErrCategoryNotFound)
		}
		current = ancestor.ParentID
	}
	return nil
}
