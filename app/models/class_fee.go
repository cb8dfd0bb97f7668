package models

// ClassFee is the per-class standing fee schedule applied when admitting a
// student into a class.
type ClassFee struct {
	Class        string  `json:"class" validate:"required"`
	TuitionFee   float64 `json:"tuitionFee" validate:"gte=0"`
	AdmissionFee float64 `json:"admissionFee" validate:"gte=0"`
}
