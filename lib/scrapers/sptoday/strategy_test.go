package sptoday

import (
	"context"
	"testing"

	"sptoday-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

type recordingStrategy struct {
	name    string
	output  []CurrencyRate
	invoked *bool
}

func (s recordingStrategy) Name() string { return s.name }

func (s recordingStrategy) Extract(ctx context.Context, markup string) []CurrencyRate {
	*s.invoked = true
	return s.output
}

func TestRunStrategiesShortCircuits(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	first := false
	second := false
	third := false
	rate := CurrencyRate{Name: "دولار أمريكي", Buy: 12500, Sell: 12600}

	out := runStrategies(context.Background(), "currencies", "<html></html>", []Strategy[CurrencyRate]{
		recordingStrategy{name: "empty", invoked: &first},
		recordingStrategy{name: "winner", output: []CurrencyRate{rate}, invoked: &second},
		recordingStrategy{name: "unreached", output: []CurrencyRate{rate}, invoked: &third},
	})

	require.Equal(t, []CurrencyRate{rate}, out)
	require.True(t, first)
	require.True(t, second)
	require.False(t, third, "later strategies must not run once one yields records")
}

func TestRunStrategiesAllEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:sptoday")
	defer cleanup()

	invoked := false
	out := runStrategies(context.Background(), "currencies", "", []Strategy[CurrencyRate]{
		recordingStrategy{name: "empty", invoked: &invoked},
	})
	require.Empty(t, out)
	require.True(t, invoked)
}

func TestScriptObjects(t *testing.T) {
	doc, err := parseDocument(`<html><head>
		<script>console.log("noise");</script>
		<script>var data = {"rates": [{"name":"يورو","buy":"13000","sell":"13100"}]}</script>
	</head></html>`)
	require.NoError(t, err)

	objects := scriptObjects(doc)
	require.Len(t, objects, 1)
	_, ok := objects[0]["rates"]
	require.True(t, ok)
}
