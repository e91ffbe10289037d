package field_test

import (
	"testing"

	"github.com/syssam/icetype/schema/field"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `"it's"`, field.StringDefault("it's").String())
	assert.Equal(t, "0.00", field.NumberDefault("0.00").String())
	assert.Equal(t, "true", field.BoolDefault(true).String())
	assert.Equal(t, "null", field.NullDefault().String())
	assert.Equal(t, "now()", field.FuncDefault("now").String())
}

func TestDefaultValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(-3), field.NumberDefault("-3").Value())
	assert.Equal(t, 1.5, field.NumberDefault("1.5").Value())
	assert.Equal(t, false, field.BoolDefault(false).Value())
	assert.Nil(t, field.NullDefault().Value())
	assert.Equal(t, "uuid", field.FuncDefault("uuid").Value())
	assert.Equal(t, "x", field.StringDefault("x").Value())
}

func TestDefaultDecimal(t *testing.T) {
	t.Parallel()

	d, err := field.NumberDefault("19.99").Decimal()
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("19.99")))

	_, err = field.StringDefault("abc").Decimal()
	assert.Error(t, err)
}

func TestDefaultFitsDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw          string
		precision    int
		scale        int
		expectedFits bool
	}{
		{"0.00", 10, 2, true},
		{"12345678.99", 10, 2, true},
		{"123456789.99", 10, 2, false},
		{"1.999", 10, 2, false},
		{"1.990", 10, 2, true},
		{"-5", 3, 0, true},
		{"1000", 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expectedFits, field.NumberDefault(tt.raw).FitsDecimal(tt.precision, tt.scale))
		})
	}
	assert.False(t, field.StringDefault("x").FitsDecimal(10, 2))
}
