package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testParams struct {
	Page     int    `query:"page" validate:"gte=1"`
	PageSize int    `query:"page_size" validate:"gte=1,lte=100"`
	Order    string `query:"order" validate:"oneof=asc desc"`
	Year     *int   `query:"year" validate:"omitempty,gte=1450,lte=2100"`
	Low      *int   `query:"low"`
	High     *int   `query:"high"`
}

func init() {
	RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(testParams)
		if p.Low != nil && p.High != nil && *p.High < *p.Low {
			sl.ReportError(p.High, "high", "High", "gtefield", "low")
		}
	}, testParams{})
}

func intPtr(v int) *int { return &v }

func TestStruct_Valid(t *testing.T) {
	errs := Struct(testParams{Page: 1, PageSize: 10, Order: "asc", Year: intPtr(1965)})
	assert.Empty(t, errs)
}

func TestStruct_FieldNamesFromQueryTag(t *testing.T) {
	errs := Struct(testParams{Page: 0, PageSize: 101, Order: "sideways"})
	require.Len(t, errs, 3)

	fields := map[string]string{}
	for _, e := range errs {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "page must be at least 1", fields["page"])
	assert.Equal(t, "page_size must be at most 100", fields["page_size"])
	assert.True(t, strings.Contains(fields["order"], "asc, desc"))
}

func TestStruct_OptionalPointerRange(t *testing.T) {
	testCases := []struct {
		year  *int
		valid bool
	}{
		{nil, true},
		{intPtr(1450), true},
		{intPtr(2100), true},
		{intPtr(1449), false},
		{intPtr(2101), false},
	}

	for _, tc := range testCases {
		errs := Struct(testParams{Page: 1, PageSize: 1, Order: "desc", Year: tc.year})
		if tc.valid {
			assert.Empty(t, errs)
		} else {
			require.Len(t, errs, 1)
			assert.Equal(t, "year", errs[0].Field)
		}
	}
}

func TestStruct_CrossFieldRule(t *testing.T) {
	errs := Struct(testParams{Page: 1, PageSize: 1, Order: "asc", Low: intPtr(5), High: intPtr(3)})
	require.Len(t, errs, 1)
	assert.Equal(t, "high", errs[0].Field)
	assert.Equal(t, "high must be greater than or equal to low", errs[0].Message)

	errs = Struct(testParams{Page: 1, PageSize: 1, Order: "asc", Low: intPtr(3), High: intPtr(3)})
	assert.Empty(t, errs)
}

func TestErrors(t *testing.T) {
	var e Errors
	assert.NoError(t, e.Err())

	e.Add("page", "page must be an integer")
	err := e.Err()
	require.Error(t, err)

	var target *Errors
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "validation failed: page: page must be an integer", err.Error())
}
