package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"el_node_inventory/app"
	"el_node_inventory/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s)
	catCtl := controllers.NewCategoryController(s)
	prodCtl := controllers.NewProductController(s)
	invCtl := controllers.NewInventoryController(s, a.Alloc)
	destCtl := controllers.NewDestinationController(s)
	auditCtl := controllers.NewAuditController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public + protected)
	// ------------------------------
	r.POST("/api/users/login", s.Login)

	me := r.Group("/api/users", authMW, seenMW)
	{
		me.POST("/logout", s.Logout)
		me.GET("/me", s.Me)
	}

	// ------------------------------
	// User management (admin)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.POST("/register", uc.Register)
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.GET("/:id", uc.GetUser)
		users.DELETE("/:id", uc.DeleteUser)
	}

	// ------------------------------
	// Catalog: categories, products
	// ------------------------------
	categories := r.Group("/api/categories", authMW, seenMW)
	{
		categories.GET("", catCtl.List)
		categories.POST("", adminMW, catCtl.Create)
		categories.PUT("/:id", adminMW, catCtl.Update)
		categories.DELETE("/:id", adminMW, catCtl.Delete)
	}

	products := r.Group("/api/products", authMW, seenMW)
	{
		products.GET("", prodCtl.List) // ?categoryId=
		products.GET("/:id/image", prodCtl.Image)
		products.POST("", adminMW, prodCtl.Create)
		products.PUT("/:id", adminMW, prodCtl.Update)
		products.DELETE("/:id", adminMW, prodCtl.Delete)
	}

	// ------------------------------
	// Inventory (code allocation at create)
	// ------------------------------
	inventory := r.Group("/api/inventory", authMW, seenMW)
	{
		inventory.GET("", invCtl.List) // ?q=&status=&productId=&page=&size=
		inventory.GET("/codes", invCtl.CodesForProduct)
		inventory.POST("", adminMW, invCtl.Create)
		inventory.PUT("/:id", adminMW, invCtl.Update)
		inventory.DELETE("/:id", adminMW, invCtl.Delete)
	}

	// ------------------------------
	// Destinations + dashboard stats
	// ------------------------------
	destinations := r.Group("/api/destinations", authMW, seenMW)
	{
		destinations.GET("", destCtl.List)
		destinations.GET("/stats", destCtl.Stats)
		destinations.POST("", adminMW, destCtl.Create)
		destinations.PUT("/:id", adminMW, destCtl.Update)
		destinations.DELETE("/:id", adminMW, destCtl.Delete)
	}

	r.GET("/api/stats", authMW, seenMW, invCtl.Stats)

	// ------------------------------
	// Audit trail (admin)
	// ------------------------------
	audit := r.Group("/api/audit", authMW, adminMW)
	{
		audit.GET("", auditCtl.List) // ?entityType=&page=&size=
	}
}
