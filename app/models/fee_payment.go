package models

import "time"

// FeeItem is one line of a fee payment receipt.
type FeeItem struct {
	Category    FeeCategory `json:"category" validate:"required"`
	Description string      `json:"description,omitempty"`
	Amount      float64     `json:"amount" validate:"required,gt=0"`
}

// PayerInfo identifies who handed over the payment.
type PayerInfo struct {
	Name     string        `json:"name" validate:"required"`
	Relation PayerRelation `json:"relation" validate:"required,oneof=Father Mother Guardian Other"`
	Contact  string        `json:"contact,omitempty"`
}

// StudentRef is the student summary joined onto payment listings.
type StudentRef struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	RollNumber string `json:"rollNumber"`
	Class      string `json:"class"`
}

// FeePayment is an immutable receipt of one fee collection event. The
// receipt number comes from the shared monotonic counter at creation time;
// BalanceAfterPayment captures the student's balance right after this
// payment was recorded.
type FeePayment struct {
	ID                  string      `json:"id"`
	StudentID           string      `json:"student"`
	ReceiptNumber       int64       `json:"receiptNumber"`
	AcademicYear        string      `json:"academicYear"`
	PaymentDate         time.Time   `json:"paymentDate"`
	PaymentMode         PaymentMode `json:"paymentMode"`
	PaymentDetails      string      `json:"paymentDetails,omitempty"`
	PaidBy              PayerInfo   `json:"paidBy"`
	Items               []FeeItem   `json:"items"`
	TotalAmount         float64     `json:"totalAmount"`
	BalanceAfterPayment float64     `json:"balanceAfterPayment"`
	Remarks             string      `json:"remarks,omitempty"`
	CreatedBy           string      `json:"createdBy,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`

	Student *StudentRef `json:"studentInfo,omitempty"`
}

// ItemsTotal sums the line item amounts.
func (p *FeePayment) ItemsTotal() float64 {
	var total float64
	for _, item := range p.Items {
		total += item.Amount
	}
	return total
}
