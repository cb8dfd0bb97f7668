package models

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Other  Gender = "Other"
)

// StudentStatus defines the lifecycle status of a student record.
type StudentStatus string

const (
	StatusActive      StudentStatus = "active"
	StatusInactive    StudentStatus = "inactive"
	StatusGraduated   StudentStatus = "graduated"
	StatusTransferred StudentStatus = "transferred"
)

// PaymentMode defines how a fee payment was made.
type PaymentMode string

const (
	ModeCash         PaymentMode = "Cash"
	ModeCheque       PaymentMode = "Cheque"
	ModeBankTransfer PaymentMode = "Bank Transfer"
	ModeUPI          PaymentMode = "UPI"
	ModeOther        PaymentMode = "Other"
)

// ValidPaymentModes lists the accepted payment modes.
var ValidPaymentModes = []PaymentMode{ModeCash, ModeCheque, ModeBankTransfer, ModeUPI, ModeOther}

// PayerRelation defines the relationship of the payer to the student.
type PayerRelation string

const (
	RelationFather   PayerRelation = "Father"
	RelationMother   PayerRelation = "Mother"
	RelationGuardian PayerRelation = "Guardian"
	RelationOther    PayerRelation = "Other"
)

// ValidPayerRelations lists the accepted payer relations.
var ValidPayerRelations = []PayerRelation{RelationFather, RelationMother, RelationGuardian, RelationOther}

// FeeCategory defines the category of a fee line item.
type FeeCategory string

const (
	CategoryAdmission FeeCategory = "Admission"
	CategoryTuition   FeeCategory = "Tuition"
	CategoryBooks     FeeCategory = "Books"
	CategoryTransport FeeCategory = "Transport"
	CategoryUniform   FeeCategory = "Uniform"
	CategoryOther     FeeCategory = "Other"
)

// ValidFeeCategories lists the accepted fee line item categories.
var ValidFeeCategories = []FeeCategory{
	CategoryAdmission, CategoryTuition, CategoryBooks,
	CategoryTransport, CategoryUniform, CategoryOther,
}

// Role defines the access level of a staff user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)
