package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListParamsDefaults(t *testing.T) {
	params := ParseListParams(map[string]string{}, StudentFilterFields)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, DefaultPageLimit, params.Limit)
	assert.Empty(t, params.Filters)
	assert.Empty(t, params.Search)
}

func TestParseListParamsReservedKeys(t *testing.T) {
	params := ParseListParams(map[string]string{
		"page":       "3",
		"limit":      "10",
		"search":     "  aisha ",
		"feeStatus":  "pending",
		"sortByFees": "DESC",
		"sort":       "class, -createdAt",
		"select":     "firstName",
	}, StudentFilterFields)

	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 10, params.Limit)
	assert.Equal(t, "aisha", params.Search)
	assert.Equal(t, "pending", params.FeeStatus)
	assert.Equal(t, "desc", params.SortByFees)
	assert.Equal(t, []string{"class", "-createdAt"}, params.SortBy)
	// reserved keys never become filters
	assert.Empty(t, params.Filters)
}

func TestParseListParamsLegacyAliases(t *testing.T) {
	params := ParseListParams(map[string]string{
		"_sort":  "rollNumber",
		"_limit": "5",
		"q":      "omar",
	}, StudentFilterFields)

	assert.Equal(t, []string{"rollNumber"}, params.SortBy)
	assert.Equal(t, 5, params.Limit)
	assert.Equal(t, "omar", params.Search)
}

func TestParseListParamsWhitelist(t *testing.T) {
	params := ParseListParams(map[string]string{
		"class":     "5",
		"dropTable": "students; --",
	}, StudentFilterFields)

	require.Len(t, params.Filters, 1)
	assert.Equal(t, "class", params.Filters[0].Column)
	assert.Equal(t, "=", params.Filters[0].Op)
	assert.Equal(t, "5", params.Filters[0].Value)
}

func TestParseListParamsOperators(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  string
		column string
		op     string
	}{
		{"greater than", "fee.balance[gt]", "0", "fee_balance", ">"},
		{"greater or equal", "admissionDate[gte]", "2024-04-01", "admission_date", ">="},
		{"less than", "fee.totalFee[lt]", "20000", "fee_total_fee", "<"},
		{"less or equal", "fee.paidAmount[lte]", "5000", "fee_paid_amount", "<="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParseListParams(map[string]string{tt.key: tt.value}, StudentFilterFields)

			require.Len(t, params.Filters, 1)
			assert.Equal(t, tt.column, params.Filters[0].Column)
			assert.Equal(t, tt.op, params.Filters[0].Op)
			assert.Equal(t, tt.value, params.Filters[0].Value)
		})
	}
}

func TestParseListParamsInOperator(t *testing.T) {
	params := ParseListParams(map[string]string{"class[in]": "5,6,7"}, StudentFilterFields)

	require.Len(t, params.Filters, 1)
	assert.Equal(t, "in", params.Filters[0].Op)
	assert.Equal(t, []string{"5", "6", "7"}, params.Filters[0].Values)
}

func TestParseListParamsUnknownOperator(t *testing.T) {
	// an unrecognized bracket suffix does not match any whitelisted field
	params := ParseListParams(map[string]string{"class[like]": "5"}, StudentFilterFields)
	assert.Empty(t, params.Filters)
}

func TestSplitFilterKey(t *testing.T) {
	field, op := splitFilterKey("totalAmount[gte]")
	assert.Equal(t, "totalAmount", field)
	assert.Equal(t, ">=", op)

	field, op = splitFilterKey("class")
	assert.Equal(t, "class", field)
	assert.Equal(t, "=", op)
}

func TestWhereClausePlaceholders(t *testing.T) {
	params := ParseListParams(map[string]string{
		"class":           "5",
		"fee.balance[gt]": "0",
	}, StudentFilterFields)

	conditions, args := params.whereClause(3)
	require.Len(t, conditions, 2)
	require.Len(t, args, 2)
	// positional placeholders continue from the caller's index
	assert.Contains(t, conditions[0]+conditions[1], "$3")
	assert.Contains(t, conditions[0]+conditions[1], "$4")
}

func TestOrderClausePrecedence(t *testing.T) {
	params := ListParams{SortByFees: "desc", SortBy: []string{"class"}}
	order := params.orderClause(StudentFilterFields, "fee_balance", "created_at DESC")
	assert.Equal(t, "fee_balance DESC", order)

	params = ListParams{SortBy: []string{"class", "-createdAt"}}
	order = params.orderClause(StudentFilterFields, "fee_balance", "created_at DESC")
	assert.Equal(t, "class ASC, created_at DESC", order)

	params = ListParams{SortBy: []string{"notAField"}}
	order = params.orderClause(StudentFilterFields, "fee_balance", "created_at DESC")
	assert.Equal(t, "created_at DESC", order)
}

func TestOffset(t *testing.T) {
	params := ListParams{Page: 3, Limit: 25}
	assert.Equal(t, 50, params.Offset())
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		wantNext bool
		wantPrev bool
	}{
		{"first of many", 1, 25, 100, true, false},
		{"middle page", 2, 25, 100, true, true},
		{"last page", 4, 25, 100, false, true},
		{"exact boundary has no next", 2, 25, 50, false, true},
		{"single page", 1, 25, 10, false, false},
		{"empty result", 1, 25, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantNext, p.Next != nil)
			assert.Equal(t, tt.wantPrev, p.Prev != nil)
			if p.Next != nil {
				assert.Equal(t, tt.page+1, p.Next.Page)
			}
			if p.Prev != nil {
				assert.Equal(t, tt.page-1, p.Prev.Page)
			}
		})
	}
}
