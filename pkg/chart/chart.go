// CLAUDE:SUMMARY Presentation adapter: title selection by result count and SVG rendering of ranking bars and per-year history lines.
package chart

import (
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/store"
)

// Year range of the historical dataset.
const (
	HistoryStart = 1922
	HistoryEnd   = 2014
)

// Title picks the chart title for a ranked result. The three templates are
// load-bearing: existing consumers scrape them, so they stay byte-for-byte
// what they have always been.
func Title(rows []store.NameCount) string {
	switch {
	case len(rows) > 1:
		return fmt.Sprintf("¿Puede ser ... %s? ¿O capaz que %s? ¡Contáme más!",
			names.TitleCase(rows[0].Name), names.TitleCase(rows[1].Name))
	case len(rows) == 1:
		return fmt.Sprintf("¡Hola %s!", names.TitleCase(rows[0].Name))
	default:
		return "¡No esssistís!"
	}
}

// RenderRanking writes the ranked result as an SVG bar chart. Bars are in
// ascending order so the top name sits on top of the pile, as the original
// charts always drew them.
func RenderRanking(w io.Writer, rows []store.NameCount) error {
	if len(rows) == 0 {
		return renderPlaceholder(w, Title(nil))
	}

	bars := make([]gochart.Value, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		bars = append(bars, gochart.Value{
			Value: float64(rows[i].Count),
			Label: names.TitleCase(rows[i].Name),
		})
	}

	graph := gochart.BarChart{
		Title:    Title(rows),
		Height:   400,
		BarWidth: 40,
		Bars:     bars,
	}
	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render ranking: %w", err)
	}
	return nil
}

// Series is one name's per-year history, zero-filled over the dataset range.
type Series struct {
	Name   string
	Counts []store.YearCount
}

// RenderHistory writes one line per requested name over 1922-2014.
func RenderHistory(w io.Writer, series []Series) error {
	if len(series) == 0 {
		return renderPlaceholder(w, Title(nil))
	}

	chartSeries := make([]gochart.Series, 0, len(series))
	for _, s := range series {
		byYear := make(map[int]int, len(s.Counts))
		for _, yc := range s.Counts {
			byYear[yc.Year] = yc.Count
		}

		var xs, ys []float64
		for year := HistoryStart; year <= HistoryEnd; year++ {
			xs = append(xs, float64(year))
			ys = append(ys, float64(byYear[year]))
		}
		chartSeries = append(chartSeries, gochart.ContinuousSeries{
			Name:    names.TitleCase(s.Name),
			XValues: xs,
			YValues: ys,
		})
	}

	graph := gochart.Chart{
		Height: 200,
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.IntValueFormatter,
		},
		Series: chartSeries,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render history: %w", err)
	}
	return nil
}

// renderPlaceholder emits a minimal SVG carrying only the title. The chart
// library refuses to draw zero bars or zero series, and "no results" must
// render a placeholder, not an error.
func renderPlaceholder(w io.Writer, title string) error {
	const tmpl = `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="400">` +
		`<text x="512" y="200" text-anchor="middle" font-size="24">%s</text></svg>`
	_, err := fmt.Fprintf(w, tmpl, title)
	return err
}
