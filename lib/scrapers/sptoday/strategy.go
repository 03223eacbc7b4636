package sptoday

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"sptoday-backend/lib/htmlutil"
	"sptoday-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("scrapers/sptoday")

// Strategy is one self-contained extraction attempt against raw markup.
// Strategies are stateless and must not share mutable state.
type Strategy[T any] interface {
	Name() string
	Extract(ctx context.Context, markup string) []T
}

// runStrategies tries each strategy in priority order and returns the
// output of the first one yielding at least one record. All strategies
// coming up empty is not an error, the category simply has no records.
func runStrategies[T any](ctx context.Context, category string, markup string, strategies []Strategy[T]) []T {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("extract:%s", category))
	defer span.End()

	for _, strategy := range strategies {
		records := strategy.Extract(ctx, markup)
		if len(records) == 0 {
			continue
		}
		span.SetAttributes(
			attribute.String("strategy", strategy.Name()),
			attribute.Int("records", len(records)),
		)
		slog.DebugContext(
			ctx, "extraction strategy succeeded",
			"category", category,
			"strategy", strategy.Name(),
			"records", len(records),
		)
		return records
	}

	span.SetAttributes(attribute.String("strategy", "none"))
	slog.WarnContext(ctx, "no extraction strategy yielded records", "category", category)
	return nil
}

func parseDocument(markup string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(markup))
}

// assignment statements whose right hand side might be a JSON object,
// greedy first since inline data blobs usually end the script.
var scriptAssignGreedy = regexp.MustCompile(`(?s)=\s*(\{.*\})`)
var scriptAssignLazy = regexp.MustCompile(`(?s)=\s*(\{.*?\})\s*;`)

// scriptObjects scans inline script blocks for assignments whose right
// hand side parses as a JSON object.
func scriptObjects(doc *goquery.Document) []map[string]json.RawMessage {
	var objects []map[string]json.RawMessage
	for _, script := range htmlutil.ScriptTexts(doc) {
		for _, re := range []*regexp.Regexp{scriptAssignGreedy, scriptAssignLazy} {
			groups := re.FindStringSubmatch(script)
			if len(groups) < 2 {
				continue
			}
			blob := strings.TrimSuffix(strings.TrimSpace(groups[1]), ";")
			var obj map[string]json.RawMessage
			if json.Unmarshal([]byte(blob), &obj) == nil {
				objects = append(objects, obj)
				break
			}
		}
	}
	return objects
}

// recordLists pulls out every list-of-objects field under one of the
// given keys from the scanned script objects.
func recordLists(doc *goquery.Document, keys []string) [][]map[string]any {
	var lists [][]map[string]any
	for _, obj := range scriptObjects(doc) {
		for _, key := range keys {
			raw, ok := obj[key]
			if !ok {
				continue
			}
			var list []map[string]any
			if json.Unmarshal(raw, &list) != nil {
				continue
			}
			if len(list) > 0 {
				lists = append(lists, list)
			}
		}
	}
	return lists
}

// jsonNumber coerces a decoded JSON value into a float, tolerating
// numbers serialized as strings.
func jsonNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return 0, false
		}
		return t, true
	case string:
		return textutil.ParseNumber(t)
	}
	return 0, false
}

func jsonString(v any) string {
	s, _ := v.(string)
	return textutil.CleanText(s)
}
