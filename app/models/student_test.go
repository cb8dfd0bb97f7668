package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	fee := Fee{
		AdmissionFee: 5000,
		TuitionFee:   15000,
		TransportFee: 3000,
		OtherFee:     500,
		Concession:   2000,
		PaidAmount:   8000,
	}
	fee.ComputeTotals()

	assert.Equal(t, 23500.0, fee.TotalFee)
	assert.Equal(t, 13500.0, fee.Balance)
}

func TestComputeTotalsIgnoresArrears(t *testing.T) {
	// arrears from past years are settled by promotion, not by the
	// current-year balance
	fee := Fee{
		TuitionFee: 20000,
		Arrears:    4000,
		PaidAmount: 5000,
	}
	fee.ComputeTotals()

	assert.Equal(t, 20000.0, fee.TotalFee)
	assert.Equal(t, 15000.0, fee.Balance)
}

func TestComputeTotalsOverpayment(t *testing.T) {
	fee := Fee{
		TuitionFee: 10000,
		PaidAmount: 12000,
	}
	fee.ComputeTotals()

	assert.Equal(t, -2000.0, fee.Balance)
}

func TestFullName(t *testing.T) {
	s := Student{FirstName: "Aisha", LastName: "Khan"}
	assert.Equal(t, "Aisha Khan", s.FullName())
}

func TestFeePaymentItemsTotal(t *testing.T) {
	p := FeePayment{Items: []FeeItem{
		{Category: CategoryTuition, Amount: 4000},
		{Category: CategoryBooks, Amount: 750.50},
	}}
	assert.Equal(t, 4750.50, p.ItemsTotal())

	empty := FeePayment{}
	assert.Equal(t, 0.0, empty.ItemsTotal())
}
