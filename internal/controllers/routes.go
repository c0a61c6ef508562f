package controllers

import (
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/gin-gonic/gin"
)

// Routes groups the controllers and auth settings mounted under /api
type Routes struct {
	JWTSecret []byte
	Tokens    middleware.TokenValidator

	Auth    *AuthController
	Users   *UserController
	Recipes RecipeController
	Catalog *CatalogController
}

// Register mounts every API route on router under /api
func (r Routes) Register(router *gin.Engine) {
	api := router.Group("/api")

	// Anonymous requests are allowed; a token, when sent, must be valid
	public := api.Group("")
	public.Use(middleware.OptionalAuth(r.JWTSecret, r.Tokens))
	{
		public.POST("/auth/token/login", r.Auth.Login)
		public.POST("/users", r.Users.Register)
		public.GET("/users", r.Users.ListUsers)
		public.GET("/users/:id", r.Users.GetUser)

		public.GET("/tags", r.Catalog.ListTags)
		public.GET("/tags/:id", r.Catalog.GetTag)
		public.GET("/ingredients", r.Catalog.ListIngredients)
		public.GET("/ingredients/:id", r.Catalog.GetIngredient)

		public.GET("/recipes", r.Recipes.ListRecipes)
		public.GET("/recipes/:id", r.Recipes.GetRecipe)
	}

	protected := api.Group("")
	protected.Use(middleware.OAuth2Auth(r.JWTSecret, r.Tokens))
	{
		protected.POST("/auth/token/logout", r.Auth.Logout)

		protected.GET("/users/me", r.Users.Me)
		protected.POST("/users/set_password", r.Users.SetPassword)
		protected.GET("/users/subscriptions", r.Users.ListSubscriptions)
		protected.POST("/users/:id/subscribe", r.Users.Subscribe)
		protected.DELETE("/users/:id/subscribe", r.Users.Unsubscribe)

		protected.POST("/recipes", r.Recipes.CreateRecipe)
		protected.PATCH("/recipes/:id", r.Recipes.UpdateRecipe)
		protected.DELETE("/recipes/:id", r.Recipes.DeleteRecipe)
		protected.POST("/recipes/:id/favorite", r.Recipes.AddFavorite)
		protected.DELETE("/recipes/:id/favorite", r.Recipes.RemoveFavorite)
		protected.POST("/recipes/:id/shopping_cart", r.Recipes.AddToShoppingCart)
		protected.DELETE("/recipes/:id/shopping_cart", r.Recipes.RemoveFromShoppingCart)
		protected.GET("/recipes/download_shopping_cart", r.Recipes.DownloadShoppingCart)

		admin := protected.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/tags", r.Catalog.CreateTag)
			admin.POST("/ingredients", r.Catalog.CreateIngredient)
		}
	}
}
