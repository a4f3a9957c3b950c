package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1500.00", FormatMoney(decimal.NewFromInt(1500)))
	assert.Equal(t, "-$900.00", FormatMoney(decimal.NewFromInt(-900)))
	assert.Equal(t, "$0.10", FormatMoney(decimal.NewFromFloat(0.1)))
}
