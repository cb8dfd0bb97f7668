package models

import "time"

// Fee is the aggregate fee position embedded in a student record. The
// derived fields (TotalFee, Balance) are kept consistent with the category
// fees and the student's payment history by ComputeTotals and by the fee
// ledger service.
type Fee struct {
	AdmissionFee    float64    `json:"admissionFee"`
	TuitionFee      float64    `json:"tuitionFee"`
	TransportFee    float64    `json:"transportFee"`
	OtherFee        float64    `json:"otherFee"`
	Arrears         float64    `json:"arrears"`
	Concession      float64    `json:"concession"`
	TotalFee        float64    `json:"totalFee"`
	PaidAmount      float64    `json:"paidAmount"`
	Balance         float64    `json:"balance"`
	LastPaymentDate *time.Time `json:"lastPaymentDate,omitempty"`
}

// ComputeTotals recalculates the derived fields from the standing charges.
// Arrears is tracked separately and does not feed TotalFee or Balance; it is
// settled by the year-end promotion, not by the current-year ledger.
func (f *Fee) ComputeTotals() {
	f.TotalFee = f.AdmissionFee + f.TuitionFee + f.TransportFee + f.OtherFee
	f.Balance = f.TotalFee - f.Concession - f.PaidAmount
}

// Student represents a student enrolled in the school.
type Student struct {
	ID string `json:"id"`

	// Personal details
	FirstName    string     `json:"firstName" validate:"required"`
	LastName     string     `json:"lastName" validate:"required"`
	Gender       Gender     `json:"gender" validate:"required,oneof=Male Female Other"`
	DateOfBirth  time.Time  `json:"dateOfBirth" validate:"required"`
	BloodGroup   string     `json:"bloodGroup,omitempty"`
	AadharNumber string     `json:"aadharNumber,omitempty"`
	PenNumber    string     `json:"penNumber,omitempty"`

	// Contact details
	Email        string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	PhoneNumber2 string `json:"phoneNumber2,omitempty"`

	// Address
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`

	// Academic details
	RollNumber    string    `json:"rollNumber" validate:"required"`
	Class         string    `json:"class" validate:"required"`
	Section       string    `json:"section,omitempty"`
	AdmissionDate time.Time `json:"admissionDate" validate:"required"`

	// Parent / guardian details
	FatherName       string `json:"fatherName" validate:"required"`
	FatherOccupation string `json:"fatherOccupation,omitempty"`
	FatherPhone      string `json:"fatherPhone,omitempty"`
	FatherAadhar     string `json:"fatherAadhar,omitempty"`
	MotherName       string `json:"motherName" validate:"required"`
	MotherOccupation string `json:"motherOccupation,omitempty"`
	MotherPhone      string `json:"motherPhone,omitempty"`
	MotherAadhar     string `json:"motherAadhar,omitempty"`
	GuardianName     string `json:"guardianName,omitempty"`
	GuardianRelation string `json:"guardianRelation,omitempty"`
	GuardianPhone    string `json:"guardianPhone,omitempty"`

	// Fee position
	Fee Fee `json:"fee"`

	// Bank details
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	IfscCode          string `json:"ifscCode,omitempty"`
	AccountHolderName string `json:"accountHolderName,omitempty"`

	// Documents
	HasAadhar           bool   `json:"hasAadhar"`
	HasBirthCertificate bool   `json:"hasBirthCertificate"`
	HasTc               bool   `json:"hasTc"`
	HasPhoto            bool   `json:"hasPhoto"`
	Photo               string `json:"photo,omitempty"`

	// System fields
	Status    StudentStatus `json:"status"`
	CreatedBy string        `json:"createdBy,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
