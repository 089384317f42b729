package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmountWholeKip(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "950", FormatAmount(950))
	// The Kip has no subdivision; fractional amounts round.
	assert.Equal(t, "950", FormatAmount(949.6))
	assert.Equal(t, "949", FormatAmount(949.4))
}

func TestFormatCurrencySymbol(t *testing.T) {
	assert.Equal(t, "₭0", FormatCurrency(0))
	assert.Equal(t, "₭500", FormatCurrency(500))
}
