package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1500, "Rupees One Thousand Five Hundred Only"},
		{1, "Rupees One Only"},
		{2500.50, "Rupees Two Thousand Five Hundred and Fifty Paise Only"},
		{0, "Rupees Zero Only"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AmountInWords(tt.amount))
	}
}
