package replay

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteJSON writes the replay results to w in JSON format.
func WriteJSON(w io.Writer, results []Result) error {
	type row struct {
		Date          string  `json:"date"`
		Outcome       string  `json:"outcome"`
		Action        string  `json:"action"`
		PreviousPrice float64 `json:"previous_price"`
		AppliedPrice  float64 `json:"applied_price"`
		Error         string  `json:"error,omitempty"`
	}
	rows := make([]row, len(results))
	for i, r := range results {
		rows[i] = row{
			Date:          r.Date.Format(time.DateOnly),
			Outcome:       r.Outcome,
			Action:        r.Action,
			PreviousPrice: r.PreviousPrice,
			AppliedPrice:  r.AppliedPrice,
		}
		if r.Err != nil {
			rows[i].Error = r.Err.Error()
		}
	}
	return json.NewEncoder(w).Encode(rows)
}

// WriteCSV writes one line per replayed day. Recommendation columns are
// empty when the price was held or the day rejected.
func WriteCSV(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"date", "outcome", "action", "previous_price", "applied_price",
		"predicted_volume", "predicted_profit", "range_low", "range_high", "candidates", "error",
	}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{
			r.Date.Format(time.DateOnly),
			r.Outcome,
			r.Action,
			formatFloat(r.PreviousPrice),
			formatFloat(r.AppliedPrice),
			"", "", "", "", "", "",
		}
		if x := r.Recommendation; x != nil {
			rec[5] = formatFloat(x.PredictedVolume)
			rec[6] = formatFloat(x.PredictedProfit)
			rec[7] = formatFloat(x.AdmissibleRange.Low)
			rec[8] = formatFloat(x.AdmissibleRange.High)
			rec[9] = strconv.Itoa(x.CandidatesEvaluated())
		}
		if r.Err != nil {
			rec[10] = r.Err.Error()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// ChartHTML renders applied prices and admissible bounds as a line chart.
func ChartHTML(results []Result) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Daily price replay"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Price", Scale: opts.Bool(true)}),
	)

	xAxis := make([]string, 0, len(results))
	applied := make([]opts.LineData, 0, len(results))
	low := make([]opts.LineData, 0, len(results))
	high := make([]opts.LineData, 0, len(results))
	for _, r := range results {
		xAxis = append(xAxis, r.Date.Format(time.DateOnly))
		applied = append(applied, opts.LineData{Value: r.AppliedPrice})
		if x := r.Recommendation; x != nil {
			low = append(low, opts.LineData{Value: x.AdmissibleRange.Low})
			high = append(high, opts.LineData{Value: x.AdmissibleRange.High})
		} else {
			low = append(low, opts.LineData{Value: "-"})
			high = append(high, opts.LineData{Value: "-"})
		}
	}
	line.SetXAxis(xAxis).
		AddSeries("Applied price", applied).
		AddSeries("Range low", low).
		AddSeries("Range high", high)

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.String(), nil
}
