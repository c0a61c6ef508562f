package services

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
)

var (
	favorites = linkTable[models.Favorite]{
		name:         "favorite",
		targetColumn: "recipe_id",
		newLink: func(userID, recipeID uint) *models.Favorite {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}

	shoppingCart = linkTable[models.ShoppingCartEntry]{
		name:         "shopping_cart",
		targetColumn: "recipe_id",
		newLink: func(userID, recipeID uint) *models.ShoppingCartEntry {
			return &models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}
		},
	}

	subscriptions = linkTable[models.Subscription]{
		name:         "subscription",
		targetColumn: "author_id",
		newLink: func(userID, authorID uint) *models.Subscription {
			return &models.Subscription{UserID: userID, AuthorID: authorID}
		},
	}
)
