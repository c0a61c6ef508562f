package services

import (
	"gorm.io/gorm"
)

// Scope narrows a query. Scopes compose on the query they are given and
// never restart from the full table.
type Scope = func(*gorm.DB) *gorm.DB

// Paginate limits the query to a 1-based page of limit rows
func Paginate(page, limit int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// ByAuthor keeps recipes written by authorID
func ByAuthor(authorID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.author_id = ?", authorID)
	}
}

// WithTagSlugs keeps recipes carrying at least one of the slugs
func WithTagSlugs(slugs ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", slugs))
	}
}

// FavoritedBy keeps recipes userID marked as favorite
func FavoritedBy(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("favorites").
				Select("recipe_id").
				Where("user_id = ?", userID))
	}
}

// InShoppingCartOf keeps recipes in userID's shopping cart
func InShoppingCartOf(userID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipes.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("shopping_cart_entries").
				Select("recipe_id").
				Where("user_id = ?", userID))
	}
}
