package FiberConfig

import (
	"fmt"
	"log"
	"os"

	"TapirTwins/Controllers"
	"TapirTwins/Models"
	"TapirTwins/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", Controllers.Register)
	auth.Post("/login", Controllers.Login)
	auth.Get("/me", middleware.Verify(), Controllers.Me)

	// Space routes
	spaces := api.Group("/spaces", middleware.Verify())
	spaces.Post("/", Controllers.CreateSpace)
	spaces.Get("/", Controllers.GetUserSpaces)
	spaces.Post("/join", Controllers.JoinSpace)
	spaces.Get("/:space_id", middleware.MemberRequired(""), Controllers.GetSpace)
	spaces.Put("/:space_id", middleware.MemberRequired(Models.RoleAdmin), Controllers.UpdateSpace)
	spaces.Delete("/:space_id", middleware.MemberRequired(Models.RoleAdmin), Controllers.DeleteSpace)

	// Membership routes
	spaces.Post("/:space_id/members", middleware.MemberRequired(Models.RoleAdmin), Controllers.InviteMember)
	spaces.Put("/:space_id/members/:user_id", middleware.MemberRequired(Models.RoleAdmin), Controllers.UpdateMemberRole)
	spaces.Delete("/:space_id/members/:user_id", middleware.MemberRequired(Models.RoleAdmin), Controllers.RemoveMember)

	// Space task routes - records BEFORE the :task_id route to avoid conflicts
	spaces.Get("/:space_id/tasks", middleware.MemberRequired(""), Controllers.GetSpaceTasks)
	spaces.Post("/:space_id/tasks", middleware.MemberRequired(""), Controllers.CreateSpaceTask)
	spaces.Get("/:space_id/tasks/records", middleware.MemberRequired(""), Controllers.GetSpaceTaskRecords)
	spaces.Get("/:space_id/tasks/records/today", middleware.MemberRequired(""), Controllers.GetSpaceTodayRecords)
	spaces.Post("/:space_id/tasks/records/:record_id/approve", middleware.MemberRequired(""), Controllers.ApproveTaskRecord)
	spaces.Post("/:space_id/tasks/records/:record_id/reject", middleware.MemberRequired(""), Controllers.RejectTaskRecord)
	spaces.Get("/:space_id/tasks/:task_id/history", middleware.MemberRequired(""), Controllers.GetTaskHistory)

	// Space dream routes
	spaces.Get("/:space_id/dreams", middleware.MemberRequired(""), Controllers.GetSpaceDreams)
	spaces.Post("/:space_id/dreams", middleware.MemberRequired(""), Controllers.CreateSpaceDream)

	// Task routes - stats and today's records BEFORE the :id route
	tasks := api.Group("/tasks", middleware.Verify())
	tasks.Get("/", Controllers.GetTasks)
	tasks.Post("/", Controllers.CreateTask)
	tasks.Get("/stats/monthly/:month", Controllers.GetMonthlyStats)
	tasks.Get("/stats/monthly/:month/export", Controllers.ExportMonthlyStats)
	tasks.Post("/stats/update", Controllers.UpdateMonthlyStats)
	tasks.Get("/records/today", Controllers.GetTodayRecords)
	tasks.Get("/:id", Controllers.GetTask)
	tasks.Put("/:id", Controllers.UpdateTask)
	tasks.Delete("/:id", Controllers.DeleteTask)
	tasks.Post("/:id/complete", Controllers.CompleteTask)
	tasks.Get("/:id/records", Controllers.GetTaskRecords)

	// Dream routes
	dreams := api.Group("/dreams", middleware.Verify())
	dreams.Get("/", Controllers.GetDreams)
	dreams.Post("/", Controllers.CreateDream)
	dreams.Get("/:id", Controllers.GetDream)
	dreams.Put("/:id", Controllers.UpdateDream)
	dreams.Delete("/:id", Controllers.DeleteDream)

	// User settings
	api.Get("/user/settings", middleware.Verify(), Controllers.GetUserSettings)
	api.Put("/user/settings", middleware.Verify(), Controllers.UpdateUserSettings)

	// Request log inspection
	logs := api.Group("/logs", middleware.Verify())
	logs.Get("/", Controllers.GetLogs)
	logs.Get("/stats", Controllers.GetLogStats)

	// Evidence images - the listing route BEFORE the filename route
	api.Get("/images", Controllers.ListImages)
	api.Get("/images/:filename", Controllers.GetImage)
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()

	app.Use(middleware.RequestLogger())
	app.Use(middleware.ErrorLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		MaxAge:       300,
	}))

	SetupRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
