package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	testCases := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{input: "1,234.50", expected: 1234.50, ok: true},
		{input: "12500", expected: 12500, ok: true},
		{input: " 12,600 ", expected: 12600, ok: true},
		{input: "$43,250.75", expected: 43250.75, ok: true},
		{input: "1٬850٬000", expected: 1850000, ok: true},
		{input: "١٢٣٤", expected: 1234, ok: true},
		{input: "13000 ل.س", expected: 13000, ok: true},
		{input: "4.25%", expected: 4.25, ok: true},
		{input: "", ok: false},
		{input: "   ", ok: false},
		{input: "دولار", ok: false},
		{input: "n/a", ok: false},
		{input: "--", ok: false},
	}

	for _, test := range testCases {
		got, ok := ParseNumber(test.input)
		require.Equal(t, test.ok, ok, "input %q", test.input)
		if test.ok {
			require.InDelta(t, test.expected, got, 1e-9, "input %q", test.input)
		}
	}
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "دولار أمريكي", CleanText("  دولار \n\t أمريكي "))
	require.Equal(t, "USD 12,500", CleanText("USD 12,500"))
	require.Equal(t, "", CleanText(" \n\t "))
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "usd", NormalizeName("USD"))
	require.Equal(t, NormalizeName("دولار أمريكي"), NormalizeName(" دولار  أمريكي "))
}
