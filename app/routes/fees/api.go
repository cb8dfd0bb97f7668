package fees

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/divan/num2words"
	"github.com/gofiber/fiber/v2"

	"github.com/sdsameer16/Alfitra-Fees/app/config"
	"github.com/sdsameer16/Alfitra-Fees/app/database"
	"github.com/sdsameer16/Alfitra-Fees/app/routes/auth"
	"github.com/sdsameer16/Alfitra-Fees/app/services"
)

// GetFeesAPI lists fee payments with student info, filtering, search and
// pagination.
func GetFeesAPI(c *fiber.Ctx) error {
	params := database.ParseListParams(c.Queries(), database.FeeFilterFields)

	payments, total, err := database.ListFeePayments(config.GetDB(), params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch fee payments"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      total,
		"pagination": database.BuildPagination(params.Page, params.Limit, total),
		"data":       payments,
	})
}

// CreateFeeAPI records a payment through the fee ledger: receipt number
// allocation, payment insert and student re-aggregation happen in one
// transaction.
func CreateFeeAPI(c *fiber.Ctx) error {
	var input services.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID, role := auth.CurrentActor(c)
	ledger := services.NewFeeLedger(config.GetDB())

	payment, err := ledger.RecordPayment(input, services.Actor{UserID: userID, Role: role})
	if err != nil {
		return ledgerError(c, err, "Student not found", "Failed to record payment")
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": payment})
}

// GetFeeAPI returns one payment with its student summary.
func GetFeeAPI(c *fiber.Ctx) error {
	payment, err := database.GetFeePaymentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Payment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch payment"})
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

// UpdateFeeAPI edits a payment. Only the admin or the user who recorded
// the payment may edit it; the receipt number never changes.
func UpdateFeeAPI(c *fiber.Ctx) error {
	var input services.UpdatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID, role := auth.CurrentActor(c)
	ledger := services.NewFeeLedger(config.GetDB())

	payment, err := ledger.UpdatePayment(c.Params("id"), input, services.Actor{UserID: userID, Role: role})
	if err != nil {
		return ledgerError(c, err, "Payment not found", "Failed to update payment")
	}

	return c.JSON(fiber.Map{"success": true, "data": payment})
}

// DeleteFeeAPI removes a payment and restores the student's balance.
func DeleteFeeAPI(c *fiber.Ctx) error {
	userID, role := auth.CurrentActor(c)
	ledger := services.NewFeeLedger(config.GetDB())

	if err := ledger.DeletePayment(c.Params("id"), services.Actor{UserID: userID, Role: role}); err != nil {
		return ledgerError(c, err, "Payment not found", "Failed to delete payment")
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetFeesByStudentAPI returns a student's payment history, most recent
// first.
func GetFeesByStudentAPI(c *fiber.Ctx) error {
	payments, err := database.GetFeePaymentsByStudent(config.GetDB(), c.Params("studentId"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch payments"})
	}

	return c.JSON(fiber.Map{"success": true, "count": len(payments), "data": payments})
}

// GetFeesByDateRangeAPI returns payments between startDate and endDate
// (inclusive), both required as YYYY-MM-DD.
func GetFeesByDateRangeAPI(c *fiber.Ctx) error {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "startDate and endDate are required"})
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid startDate, expected YYYY-MM-DD"})
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid endDate, expected YYYY-MM-DD"})
	}
	end = end.Add(24*time.Hour - time.Nanosecond)

	payments, err := database.GetFeePaymentsByDateRange(config.GetDB(), start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch payments"})
	}

	return c.JSON(fiber.Map{"success": true, "count": len(payments), "data": payments})
}

// GetFeeSummaryAPI returns school-wide collection totals.
func GetFeeSummaryAPI(c *fiber.Ctx) error {
	summary, err := database.GetFeeSummary(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch fee summary"})
	}

	return c.JSON(fiber.Map{"success": true, "data": summary})
}

// GetFeeReceiptAPI returns the printable receipt payload for a payment,
// including the amount spelled out in words.
func GetFeeReceiptAPI(c *fiber.Ctx) error {
	payment, err := database.GetFeePaymentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Payment not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch payment"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"payment":       payment,
			"amountInWords": AmountInWords(payment.TotalAmount),
		},
	})
}

// AmountInWords spells a rupee amount out for receipts, e.g.
// "Rupees One Thousand Five Hundred and Fifty Paise Only".
func AmountInWords(amount float64) string {
	rupees := int(amount)
	paise := int(math.Round((amount - float64(rupees)) * 100))

	words := "Rupees " + titleWords(num2words.Convert(rupees))
	if paise > 0 {
		words += " and " + titleWords(num2words.Convert(paise)) + " Paise"
	}
	return words + " Only"
}

func titleWords(s string) string {
	parts := strings.Fields(s)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func ledgerError(c *fiber.Ctx, err error, notFound, fallback string) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(400).JSON(fiber.Map{"success": false, "error": vErr.Message})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Not authorized to modify this payment"})
	case errors.Is(err, database.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"success": false, "error": notFound})
	default:
		return c.Status(500).JSON(fiber.Map{"success": false, "error": fallback})
	}
}
