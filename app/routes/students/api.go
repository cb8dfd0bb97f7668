package students

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"github.com/sdsameer16/Alfitra-Fees/app/config"
	"github.com/sdsameer16/Alfitra-Fees/app/database"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
	"github.com/sdsameer16/Alfitra-Fees/app/services"
)

var validate = validator.New()

// GetStudentsAPI lists students with whitelisted filtering, free-text
// search, fee-status filtering, sorting and pagination.
func GetStudentsAPI(c *fiber.Ctx) error {
	params := database.ParseListParams(c.Queries(), database.StudentFilterFields)

	students, total, err := database.ListStudents(config.GetDB(), params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      total,
		"pagination": database.BuildPagination(params.Page, params.Limit, total),
		"data":       students,
	})
}

// GetStudentAPI returns one student.
func GetStudentAPI(c *fiber.Ctx) error {
	student, err := database.GetStudentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		if err == database.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch student"})
	}

	return c.JSON(fiber.Map{"success": true, "data": student})
}

// CreateStudentAPI registers a new student; fee totals are derived before
// the record is stored.
func CreateStudentAPI(c *fiber.Ctx) error {
	student := &models.Student{}
	if err := c.BodyParser(student); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(student); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": validationMessage(err)})
	}

	if userID, ok := c.Locals("user_id").(string); ok {
		student.CreatedBy = userID
	}

	if err := database.CreateStudent(config.GetDB(), student); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to create student"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "data": student})
}

// UpdateStudentAPI applies a full edit to a student record and recomputes
// the derived fee fields.
func UpdateStudentAPI(c *fiber.Ctx) error {
	db := config.GetDB()

	student, err := database.GetStudentByID(db, c.Params("id"))
	if err != nil {
		if err == database.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch student"})
	}

	if err := c.BodyParser(student); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if err := validate.Struct(student); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": validationMessage(err)})
	}

	if err := database.UpdateStudent(db, student); err != nil {
		if err == database.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update student"})
	}

	return c.JSON(fiber.Map{"success": true, "data": student})
}

// DeleteStudentAPI soft-deletes a student; payment history is retained.
func DeleteStudentAPI(c *fiber.Ctx) error {
	if err := database.SoftDeleteStudent(config.GetDB(), c.Params("id")); err != nil {
		if err == database.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"success": false, "error": "Student not found"})
		}
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to delete student"})
	}

	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{}})
}

// GetStudentsByClassAPI returns the roster of one class.
func GetStudentsByClassAPI(c *fiber.Ctx) error {
	students, err := database.GetStudentsByClass(config.GetDB(), c.Params("class"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch students"})
	}

	return c.JSON(fiber.Map{"success": true, "count": len(students), "data": students})
}

// GetFeeDefaultersAPI returns students with an outstanding balance.
func GetFeeDefaultersAPI(c *fiber.Ctx) error {
	students, err := database.GetFeeDefaulters(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch defaulters"})
	}

	return c.JSON(fiber.Map{"success": true, "count": len(students), "data": students})
}

// GetClassFeesAPI returns the per-class fee schedule.
func GetClassFeesAPI(c *fiber.Ctx) error {
	schedule, err := database.GetClassFees(config.GetDB())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch class fees"})
	}

	return c.JSON(fiber.Map{"success": true, "data": schedule})
}

// UpdateClassFeesAPI upserts schedule entries.
func UpdateClassFeesAPI(c *fiber.Ctx) error {
	var schedule []models.ClassFee
	if err := c.BodyParser(&schedule); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}
	if len(schedule) == 0 {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "No class fee entries provided"})
	}
	for _, cf := range schedule {
		if err := validate.Struct(cf); err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": validationMessage(err)})
		}
	}

	if err := database.UpsertClassFees(config.GetDB(), schedule); err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to update class fees"})
	}

	return c.JSON(fiber.Map{"success": true, "data": schedule})
}

// PromoteAllStudentsAPI performs the year-end rollover. Destructive and
// irreversible; the client gates it behind a typed confirmation.
func PromoteAllStudentsAPI(c *fiber.Ctx) error {
	ledger := services.NewFeeLedger(config.GetDB())

	count, err := ledger.PromoteAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to promote students"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"message":       fmt.Sprintf("Promoted %d students. Pending balances moved to arrears.", count),
		"promotedCount": count,
	})
}

// ExportStudentsAPI streams the current roster as an Excel workbook,
// honoring the same filters as the list endpoint.
func ExportStudentsAPI(c *fiber.Ctx) error {
	params := database.ParseListParams(c.Queries(), database.StudentFilterFields)
	params.Page = 1
	params.Limit = 10000

	students, _, err := database.ListStudents(config.GetDB(), params)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to fetch students for export"})
	}

	f := excelize.NewFile()
	sheetName := "Students"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "error": "Failed to build export"})
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Roll Number", "Name", "Class", "Section", "Father's Name", "Phone", "Total Fee", "Paid", "Balance", "Arrears", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, s := range students {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.RollNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.FullName())
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Class)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.Section)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.FatherName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), s.PhoneNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.Fee.TotalFee)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), s.Fee.PaidAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), s.Fee.Balance)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), s.Fee.Arrears)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", row), string(s.Status))
	}

	fileName := fmt.Sprintf("students_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+fileName)
	return f.Write(c.Response().BodyWriter())
}

func validationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return fmt.Sprintf("Field validation failed on %s (%s)", errs[0].Field(), errs[0].Tag())
	}
	return "Validation failed"
}
