package app

import (
	"skillswap/internal/service/admin"
	"skillswap/internal/service/auth"
	"skillswap/internal/service/skill"
	"skillswap/internal/service/swap"
	"skillswap/internal/service/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Routes struct {
	r *gin.Engine
}

func NewRoutes(r *gin.Engine) *Routes {
	return &Routes{
		r: r,
	}
}

func (o *Routes) setupInfraRoutes() {
	o.r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	o.r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	o.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

func (o *Routes) setupAuthRoutes(handler *auth.Handler) {
	authGroup := o.r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
	}

	authorized := o.r.Group("/auth", handler.AuthMiddleware())
	{
		authorized.POST("/change-password", handler.ChangePassword)
	}
}

// setupUserRoutes registers user-related endpoints
func (o *Routes) setupUserRoutes(auth *auth.Handler, uv *user.Service) {
	userHandler := user.NewHandler(uv)

	o.r.GET("/users", userHandler.Browse)
	o.r.GET("/users/skills", userHandler.Skills)
	o.r.GET("/users/:id", userHandler.Get)

	authorized := o.r.Group("/", auth.AuthMiddleware())
	{
		authorized.GET("/profile", userHandler.GetProfile)
		authorized.PUT("/profile", userHandler.UpdateProfile)

		// Moderation (identity-gated only, see internal/policy)
		authorized.GET("/admin/users", userHandler.ListAll)
		authorized.POST("/admin/users/:id/ban", userHandler.Ban)
		authorized.POST("/admin/users/:id/unban", userHandler.Unban)
	}
}

// setupSkillRoutes registers skill-related endpoints
func (o *Routes) setupSkillRoutes(auth *auth.Handler, sv *skill.Service) {
	skillHandler := skill.NewHandler(sv)

	o.r.GET("/skills", skillHandler.List)
	o.r.GET("/skills/categories", skillHandler.Categories)
	o.r.GET("/skills/:id", skillHandler.Get)

	authorized := o.r.Group("/", auth.AuthMiddleware())
	{
		authorized.POST("/skills", skillHandler.Create)
		authorized.PUT("/skills/:id", skillHandler.Update)
		authorized.DELETE("/skills/:id", skillHandler.Delete)

		// Moderation queue
		authorized.GET("/admin/skills/pending", skillHandler.ListPending)
		authorized.POST("/admin/skills/:id/approve", skillHandler.Approve)
		authorized.POST("/admin/skills/:id/reject", skillHandler.Reject)
	}
}

// setupSwapRoutes registers swap-request endpoints; all require authentication
func (o *Routes) setupSwapRoutes(auth *auth.Handler, sv *swap.Service) {
	swapHandler := swap.NewHandler(sv)

	authorized := o.r.Group("/swap-requests", auth.AuthMiddleware())
	{
		authorized.POST("", swapHandler.Create)
		authorized.GET("/my-requests", swapHandler.ListSent)
		authorized.GET("/received", swapHandler.ListReceived)
		authorized.GET("/:id", swapHandler.Get)
		authorized.PUT("/:id", swapHandler.Update)
		authorized.DELETE("/:id", swapHandler.Delete)
	}
}

// setupAdminRoutes registers platform administration endpoints
func (o *Routes) setupAdminRoutes(auth *auth.Handler, repo admin.Repository, sv *swap.Service) {
	adminHandler := admin.NewHandler(repo, sv)

	authorized := o.r.Group("/admin", auth.AuthMiddleware())
	{
		authorized.GET("/stats", adminHandler.Stats)
		authorized.GET("/requests", adminHandler.ListRequests)
	}
}
