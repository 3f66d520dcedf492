package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("keys rows by header columns", func(t *testing.T) {
		input := strings.Join([]string{
			"PartNumber|Title|MAP|Retail",
			"100|Brake Pad Set|89.99|119.99",
			"200|Rotor|45.00|60.00",
		}, "\n")

		records, skipped, err := Parse(strings.NewReader(input))
		require.NoError(t, err)

		assert.Zero(t, skipped)
		require.Len(t, records, 2)
		assert.Equal(t, "100", records[0]["PartNumber"])
		assert.Equal(t, "Brake Pad Set", records[0]["Title"])
		assert.Equal(t, "60.00", records[1]["Retail"])
	})

	t.Run("skips rows with wrong column count", func(t *testing.T) {
		input := strings.Join([]string{
			"PartNumber|Title",
			"100|Brake Pad Set",
			"broken row without delimiter",
			"200|Rotor|extra",
			"300|Caliper",
		}, "\n")

		records, skipped, err := Parse(strings.NewReader(input))
		require.NoError(t, err)

		assert.Equal(t, 2, skipped)
		assert.Len(t, records, 2)
	})

	t.Run("handles windows line endings and blank lines", func(t *testing.T) {
		input := "PartNumber|Title\r\n100|Brake Pad Set\r\n\r\n"

		records, skipped, err := Parse(strings.NewReader(input))
		require.NoError(t, err)

		assert.Zero(t, skipped)
		require.Len(t, records, 1)
		assert.Equal(t, "Brake Pad Set", records[0]["Title"])
	})

	t.Run("empty file is an error", func(t *testing.T) {
		_, _, err := Parse(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestPickLatest(t *testing.T) {
	names := []string{
		"ACME_HAWK_BigCommerce_20260810_20260810.txt",
		"ACME_HAWK_BigCommerce_20260815_20260815.txt",
		"ACME_HAWK_BigCommerceFitment_20260816_20260816.txt",
		"ACME_EBC_BigCommerce_20260820_20260820.txt",
		"readme.txt",
	}

	t.Run("newest product file for the brand", func(t *testing.T) {
		got := PickLatest(names, ProductFilePattern("ACME", "HAWK"))
		assert.Equal(t, "ACME_HAWK_BigCommerce_20260815_20260815.txt", got)
	})

	t.Run("fitment pattern does not match product files", func(t *testing.T) {
		got := PickLatest(names, FitmentFilePattern("ACME", "HAWK"))
		assert.Equal(t, "ACME_HAWK_BigCommerceFitment_20260816_20260816.txt", got)
	})

	t.Run("no match yields empty name", func(t *testing.T) {
		got := PickLatest(names, ProductFilePattern("ACME", "WILWOOD"))
		assert.Empty(t, got)
	})
}
