package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sdsameer16/Alfitra-Fees/app/database"
	"github.com/sdsameer16/Alfitra-Fees/app/models"
)

// ErrUnauthorized is returned when an actor may not modify a payment.
var ErrUnauthorized = errors.New("not authorized to modify this payment")

// ValidationError reports a rejected payment input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// receiptSequence is the shared counter all receipt numbers are drawn from.
const receiptSequence = "receiptNumber"

// Actor identifies who is performing a ledger operation.
type Actor struct {
	UserID string
	Role   models.Role
}

// CreatePaymentInput is the payload for recording a payment. Either Items or
// the flat Amount/FeeType pair must be supplied.
type CreatePaymentInput struct {
	StudentID      string             `json:"student" validate:"required"`
	Items          []models.FeeItem   `json:"items"`
	Amount         float64            `json:"amount"`
	FeeType        string             `json:"feeType"`
	AcademicYear   string             `json:"academicYear"`
	PaymentDate    *time.Time         `json:"paymentDate"`
	PaymentMode    models.PaymentMode `json:"paymentMode"`
	PaymentDetails string             `json:"paymentDetails"`
	PaidBy         models.PayerInfo   `json:"paidBy"`
	Remarks        string             `json:"remarks"`
}

// UpdatePaymentInput carries the editable fields of a payment; nil/empty
// fields are left unchanged.
type UpdatePaymentInput struct {
	Items          []models.FeeItem   `json:"items"`
	AcademicYear   string             `json:"academicYear"`
	PaymentDate    *time.Time         `json:"paymentDate"`
	PaymentMode    models.PaymentMode `json:"paymentMode"`
	PaymentDetails *string            `json:"paymentDetails"`
	PaidBy         *models.PayerInfo  `json:"paidBy"`
	Remarks        *string            `json:"remarks"`
}

// FeeLedger is the only write path for fee payments. Every operation runs
// the payment write and the student re-aggregation inside one transaction,
// so the stored aggregates can never diverge from the payment records.
type FeeLedger struct {
	DB *sql.DB
}

func NewFeeLedger(db *sql.DB) *FeeLedger {
	return &FeeLedger{DB: db}
}

// RecordPayment validates and stores one fee collection event, assigns the
// next receipt number, and reconciles the student's aggregates.
func (l *FeeLedger) RecordPayment(input CreatePaymentInput, actor Actor) (*models.FeePayment, error) {
	items, err := normalizePaymentItems(input.Items, input.Amount, input.FeeType, input.Remarks)
	if err != nil {
		return nil, err
	}
	if input.PaidBy.Name == "" {
		return nil, validationErrorf("paidBy.name is required")
	}
	if !isValidRelation(input.PaidBy.Relation) {
		return nil, validationErrorf("invalid paidBy.relation %q", input.PaidBy.Relation)
	}
	if input.PaymentMode != "" && !isValidPaymentMode(input.PaymentMode) {
		return nil, validationErrorf("invalid payment mode %q", input.PaymentMode)
	}

	tx, err := l.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Locks the student row; aborts before any write when the student is
	// missing.
	state, err := database.GetStudentFeeStateForUpdate(tx, input.StudentID)
	if err != nil {
		return nil, err
	}

	// The counter upsert holds the single counters row locked until commit,
	// so concurrent payment creation serializes on this allocation.
	receiptNumber, err := database.NextSequence(tx, receiptSequence)
	if err != nil {
		return nil, err
	}

	payment := &models.FeePayment{
		ID:             uuid.NewString(),
		StudentID:      input.StudentID,
		ReceiptNumber:  receiptNumber,
		AcademicYear:   input.AcademicYear,
		PaymentDate:    time.Now(),
		PaymentMode:    input.PaymentMode,
		PaymentDetails: input.PaymentDetails,
		PaidBy:         input.PaidBy,
		Items:          items,
		Remarks:        input.Remarks,
		CreatedBy:      actor.UserID,
	}
	payment.TotalAmount = payment.ItemsTotal()
	// Balance before this payment is persisted.
	payment.BalanceAfterPayment = state.Balance - payment.TotalAmount
	if payment.AcademicYear == "" {
		payment.AcademicYear = strconv.Itoa(time.Now().Year())
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = *input.PaymentDate
	}
	if payment.PaymentMode == "" {
		payment.PaymentMode = models.ModeCash
	}

	if err := database.InsertFeePayment(tx, payment); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := reconcileStudent(tx, state, &now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePayment edits a payment record. Only the original creator or an
// admin may do this; when the items change the total is recomputed and the
// student re-reconciled.
func (l *FeeLedger) UpdatePayment(paymentID string, input UpdatePaymentInput, actor Actor) (*models.FeePayment, error) {
	tx, err := l.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	payment, err := database.GetFeePaymentByID(tx, paymentID)
	if err != nil {
		return nil, err
	}
	if !canModifyPayment(actor, payment) {
		return nil, ErrUnauthorized
	}

	itemsChanged := false
	if input.Items != nil {
		if err := validateItems(input.Items); err != nil {
			return nil, err
		}
		payment.Items = input.Items
		payment.TotalAmount = payment.ItemsTotal()
		itemsChanged = true
	}
	if input.AcademicYear != "" {
		payment.AcademicYear = input.AcademicYear
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = *input.PaymentDate
	}
	if input.PaymentMode != "" {
		if !isValidPaymentMode(input.PaymentMode) {
			return nil, validationErrorf("invalid payment mode %q", input.PaymentMode)
		}
		payment.PaymentMode = input.PaymentMode
	}
	if input.PaymentDetails != nil {
		payment.PaymentDetails = *input.PaymentDetails
	}
	if input.PaidBy != nil {
		if input.PaidBy.Name == "" {
			return nil, validationErrorf("paidBy.name is required")
		}
		if !isValidRelation(input.PaidBy.Relation) {
			return nil, validationErrorf("invalid paidBy.relation %q", input.PaidBy.Relation)
		}
		payment.PaidBy = *input.PaidBy
	}
	if input.Remarks != nil {
		payment.Remarks = *input.Remarks
	}

	if err := database.UpdateFeePayment(tx, payment); err != nil {
		return nil, err
	}

	if itemsChanged {
		state, err := database.GetStudentFeeStateForUpdate(tx, payment.StudentID)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		if err := reconcileStudent(tx, state, &now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return payment, nil
}

// DeletePayment removes a payment and reconciles the owning student so the
// aggregates reflect the remaining payments.
func (l *FeeLedger) DeletePayment(paymentID string, actor Actor) error {
	tx, err := l.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	payment, err := database.GetFeePaymentByID(tx, paymentID)
	if err != nil {
		return err
	}
	if !canModifyPayment(actor, payment) {
		return ErrUnauthorized
	}

	if err := database.DeleteFeePayment(tx, paymentID); err != nil {
		return err
	}

	state, err := database.GetStudentFeeStateForUpdate(tx, payment.StudentID)
	if err != nil {
		return err
	}
	if err := reconcileStudent(tx, state, nil); err != nil {
		return err
	}

	return tx.Commit()
}

// PromoteAll rolls every outstanding balance into arrears and resets the
// current-year charges. Irreversible; callers gate it behind an explicit
// confirmation step.
func (l *FeeLedger) PromoteAll() (int64, error) {
	return database.PromoteStudents(l.DB)
}

// Recalculate re-runs the aggregation for one student. Idempotent: calling
// it twice without an intervening payment change yields the same result.
func (l *FeeLedger) Recalculate(studentID string) error {
	tx, err := l.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	state, err := database.GetStudentFeeStateForUpdate(tx, studentID)
	if err != nil {
		return err
	}
	if err := reconcileStudent(tx, state, nil); err != nil {
		return err
	}
	return tx.Commit()
}

// reconcileStudent recomputes paidAmount as the sum over all of the
// student's payments, then derives the balance. A full re-aggregation
// rather than an incremental update, so it self-heals from drift.
func reconcileStudent(q database.Queryer, state *database.StudentFeeState, lastPayment *time.Time) error {
	paidAmount, err := database.SumPaymentsForStudent(q, state.ID)
	if err != nil {
		return err
	}
	balance := feeBalance(state.TotalFee, state.Concession, paidAmount)
	return database.UpdateStudentFeeAggregates(q, state.ID, paidAmount, balance, lastPayment)
}

// feeBalance applies the ledger's balance rule. Concession is honored on
// every path, including post-payment reconciliation.
func feeBalance(totalFee, concession, paidAmount float64) float64 {
	return totalFee - concession - paidAmount
}

// canModifyPayment allows the payment's creator and admins through.
func canModifyPayment(actor Actor, payment *models.FeePayment) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return payment.CreatedBy != "" && payment.CreatedBy == actor.UserID
}

// normalizePaymentItems returns the validated line items for a payment.
// When no items are given but a flat amount is, a single item is
// synthesized with its category picked from the legacy feeType field.
func normalizePaymentItems(items []models.FeeItem, amount float64, feeType, remarks string) ([]models.FeeItem, error) {
	if len(items) == 0 {
		if amount <= 0 {
			return nil, validationErrorf("payment requires at least one item or a positive amount")
		}
		items = []models.FeeItem{{
			Category:    categoryForFeeType(feeType),
			Description: remarks,
			Amount:      amount,
		}}
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

func validateItems(items []models.FeeItem) error {
	if len(items) == 0 {
		return validationErrorf("payment requires at least one item")
	}
	for i, item := range items {
		if item.Amount <= 0 {
			return validationErrorf("item %d: amount must be positive", i+1)
		}
		if !isValidCategory(item.Category) {
			return validationErrorf("item %d: invalid category %q", i+1, item.Category)
		}
	}
	return nil
}

func isValidCategory(category models.FeeCategory) bool {
	for _, valid := range models.ValidFeeCategories {
		if category == valid {
			return true
		}
	}
	return false
}

func isValidPaymentMode(mode models.PaymentMode) bool {
	for _, valid := range models.ValidPaymentModes {
		if mode == valid {
			return true
		}
	}
	return false
}

func isValidRelation(relation models.PayerRelation) bool {
	for _, valid := range models.ValidPayerRelations {
		if relation == valid {
			return true
		}
	}
	return false
}

// categoryForFeeType maps the legacy flat feeType values onto item
// categories; anything unrecognized falls back to Other.
func categoryForFeeType(feeType string) models.FeeCategory {
	switch feeType {
	case "tuition":
		return models.CategoryTuition
	case "transport":
		return models.CategoryTransport
	case "admission":
		return models.CategoryAdmission
	default:
		return models.CategoryOther
	}
}
