package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/study-planner-api/internal/auth"
	"github.com/yukikurage/study-planner-api/internal/handlers"
	"github.com/yukikurage/study-planner-api/internal/middleware"
)

// Options holds everything the router needs
type Options struct {
	TaskHandler *handlers.TaskHandler
	Verifier    auth.Verifier
	Logger      zerolog.Logger
	CORSOrigin  string
	Environment string
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.CORS(opts.CORSOrigin))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Study Planner API is running",
			"environment": opts.Environment,
		})
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Study Planner API is running",
		})
	})

	api := r.Group("/api")
	{
		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(opts.Verifier))
		{
			tasks.GET("", opts.TaskHandler.ListTasks)
			tasks.POST("", opts.TaskHandler.CreateTask)
			tasks.GET("/:id", opts.TaskHandler.GetTask)
			tasks.PUT("/:id", opts.TaskHandler.UpdateTask)
			tasks.PATCH("/:id/toggle", opts.TaskHandler.ToggleTask)
			tasks.DELETE("/:id", opts.TaskHandler.DeleteTask)
		}
	}

	return r
}
