package students

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sdsameer16/Alfitra-Fees/app/routes/auth"
)

// SetupStudentRoutes mounts the student endpoints. Static paths are
// registered before /:id so they are not swallowed by the param route.
func SetupStudentRoutes(app *fiber.App) {
	group := app.Group("/api/v1/students", auth.AuthMiddleware)

	group.Get("/", GetStudentsAPI)
	group.Post("/", CreateStudentAPI)

	group.Get("/class-fees", GetClassFeesAPI)
	group.Put("/class-fees", auth.RequireAdmin, UpdateClassFeesAPI)
	group.Post("/promote-all", auth.RequireAdmin, PromoteAllStudentsAPI)
	group.Get("/defaulters", GetFeeDefaultersAPI)
	group.Get("/export", ExportStudentsAPI)
	group.Get("/class/:class", GetStudentsByClassAPI)

	group.Get("/:id", GetStudentAPI)
	group.Put("/:id", UpdateStudentAPI)
	group.Delete("/:id", DeleteStudentAPI)
}
