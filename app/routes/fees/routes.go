package fees

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sdsameer16/Alfitra-Fees/app/routes/auth"
)

// SetupFeeRoutes mounts the fee payment endpoints. Static paths come
// before /:id.
func SetupFeeRoutes(app *fiber.App) {
	group := app.Group("/api/v1/fees", auth.AuthMiddleware)

	group.Get("/", GetFeesAPI)
	group.Post("/", CreateFeeAPI)

	group.Get("/summary", GetFeeSummaryAPI)
	group.Get("/date-range", GetFeesByDateRangeAPI)
	group.Get("/student/:studentId", GetFeesByStudentAPI)

	group.Get("/:id", GetFeeAPI)
	group.Get("/:id/receipt", GetFeeReceiptAPI)
	group.Put("/:id", UpdateFeeAPI)
	group.Delete("/:id", DeleteFeeAPI)
}
