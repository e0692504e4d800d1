// Package categories provides database operations for library categories.
//
// A category's name is both its primary key and the value stored in
// userBooks.category, so renaming comes in two flavours: Update rewrites the
// category row alone, Rename also moves every book that referenced the old
// name inside one transaction.
//
// # Interface Implementation
//
//	var _ library.CategoryStore = (*Repository)(nil)
package categories

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/tabby/internal/database"
	"github.com/mrlokans/tabby/internal/entities"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new categories repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows a Find call. A nil IsPinned matches every category.
type Filter struct {
	IsPinned *bool
}

func (f Filter) WithPinned(pinned bool) Filter {
	f.IsPinned = &pinned
	return f
}

// Create inserts a category and returns it as stored.
// Returns database.ErrAlreadyExists when the name is taken.
func (r *Repository) Create(category *entities.Category) (*entities.Category, error) {
	var count int64
	if err := r.db.Model(&entities.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
		return nil, database.Fail("checking category name", err)
	}
	if count > 0 {
		return nil, database.ErrAlreadyExists
	}

	if err := r.db.Create(category).Error; err != nil {
		return nil, database.Fail("adding category", err)
	}

	return r.GetByName(category.Name)
}

// Delete removes the category row. Books filed under it are left alone.
func (r *Repository) Delete(name string) error {
	result := r.db.Where("name = ?", name).Delete(&entities.Category{})
	if result.Error != nil {
		return database.Fail("deleting category", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func categoryColumns(category *entities.Category) map[string]any {
	return map[string]any{
		"name":     category.Name,
		"isPinned": category.IsPinned,
		"position": category.Position,
	}
}

// Update rewrites the row currently named oldName with the given values.
// Books keep referencing oldName; use Rename to move them too.
func (r *Repository) Update(oldName string, category *entities.Category) error {
	result := r.db.Model(&entities.Category{}).
		Where("name = ?", oldName).
		Updates(categoryColumns(category))
	if result.Error != nil {
		return database.Fail("updating category", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Rename updates the category row and every user book filed under oldName in
// a single transaction.
func (r *Repository) Rename(oldName string, category *entities.Category) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if oldName != category.Name {
			var count int64
			if err := tx.Model(&entities.Category{}).Where("name = ?", category.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return database.ErrAlreadyExists
			}
		}

		result := tx.Model(&entities.Category{}).
			Where("name = ?", oldName).
			Updates(categoryColumns(category))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}

		return tx.Model(&entities.UserBook{}).
			Where("category = ?", oldName).
			Update("category", entities.OptionalString(category.Name)).Error
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) || errors.Is(err, database.ErrAlreadyExists) {
			return err
		}
		return database.Fail("renaming category", err)
	}
	return nil
}

// Find returns the categories matching the filter ordered by position.
func (r *Repository) Find(filter Filter) ([]entities.Category, error) {
	query := r.db.Model(&entities.Category{})
	if filter.IsPinned != nil {
		query = query.Where("isPinned = ?", *filter.IsPinned)
	}

	categories := []entities.Category{}
	if err := query.Order("position ASC").Order("rowid ASC").Find(&categories).Error; err != nil {
		return nil, database.Fail("retrieving categories", err)
	}
	if categories == nil {
		categories = []entities.Category{}
	}
	return categories, nil
}

func (r *Repository) All() ([]entities.Category, error) {
	return r.Find(Filter{})
}

// GetByName returns the category or database.ErrNotFound.
func (r *Repository) GetByName(name string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, database.Fail("retrieving category by name", err)
	}
	return &category, nil
}

// NextPosition returns one past the largest stored position.
func (r *Repository) NextPosition() (int, error) {
	var max sql.NullInt64
	if err := r.db.Model(&entities.Category{}).Select("MAX(position)").Row().Scan(&max); err != nil {
		return 0, database.Fail("retrieving category position", err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
