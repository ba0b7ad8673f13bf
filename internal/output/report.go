// Package output renders valuation results for the console and persists
// them as JSON files under the results directory.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// WriteReport renders the full single-company report
func WriteReport(w io.Writer, res *contracts.IntrinsicValueResult) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s (%s)\n", res.CompanyName, res.Ticker)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))

	fmt.Fprintf(&b, "Current Price:     %12.2f\n", res.CurrentPrice)
	fmt.Fprintf(&b, "Intrinsic Value:   %12.2f\n", res.IntrinsicValue)
	fmt.Fprintf(&b, "Upside:            %11.1f%%\n", res.UpsidePct)
	fmt.Fprintf(&b, "Margin of Safety:  %11.1f%%\n", res.MarginOfSafetyPct)
	fmt.Fprintf(&b, "Recommendation:    %12s\n", res.Recommendation)
	fmt.Fprintf(&b, "Confidence:        %12s\n", res.Confidence)
	if res.CurrencyConverted {
		fmt.Fprintf(&b, "Converted to USD at rate %.4f", res.ConversionRate)
		if res.RateFallback {
			b.WriteString(" (rate missing, fallback 1.0)")
		}
		b.WriteString("\n")
	}

	b.WriteString("\nValuation Breakdown\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tVALUE/SHARE\tUPSIDE\tWEIGHT")
	for _, m := range res.Methods {
		weight := res.Weights[m.Method]
		if m.NotApplicable {
			fmt.Fprintf(tw, "%s\tN/A (%s)\t\t%.0f%%\n", m.Name, m.Reason, weight*100)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.2f\t%+.1f%%\t%.0f%%\n",
			m.Name, m.ValuePerShare, m.UpsidePct, weight*100)
	}
	tw.Flush()

	if len(res.WeightRationale) > 0 {
		b.WriteString("\nWeighting Rationale\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for _, line := range res.WeightRationale {
			fmt.Fprintf(&b, "  - %s\n", line)
		}
	}

	b.WriteString("\nRisk Assessment\n")
	b.WriteString(strings.Repeat("-", 60) + "\n")
	fmt.Fprintf(&b, "Financial Risk:    %s\n", res.Risk.Financial.Level)
	fmt.Fprintf(&b, "Volatility Risk:   %s (beta %.2f)\n", res.Risk.Business.VolatilityRisk, res.Risk.Business.Beta)
	fmt.Fprintf(&b, "Valuation Risk:    %s\n", res.Risk.Valuation.Level)

	if res.Dividend != nil {
		b.WriteString("\nDividend\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		fmt.Fprintf(&b, "Annual Dividend:   %12.2f\n", res.Dividend.AnnualDividend)
		fmt.Fprintf(&b, "Yield:             %11.2f%%\n", res.Dividend.Yield*100)
		fmt.Fprintf(&b, "Payout Ratio:      %11.1f%%\n", res.Dividend.PayoutRatio*100)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// SaveJSON writes the result to <dir>/<ticker>_valuation_<date>.json
func SaveJSON(dir string, res *contracts.IntrinsicValueResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := fmt.Sprintf("%s_valuation_%s.json",
		strings.ToLower(res.Ticker), res.CalculatedAt.Format("2006-01-02"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// BatchSummary aggregates a batch run for the comparison table
type BatchSummary struct {
	Results      []*contracts.IntrinsicValueResult `json:"results"`
	Failed       map[string]string                 `json:"failed,omitempty"`
	MeanUpside   float64                           `json:"meanUpsidePct"`
	MedianUpside float64                           `json:"medianUpsidePct"`
	GeneratedAt  time.Time                         `json:"generatedAt"`
}

// NewBatchSummary sorts results by upside (best first) and computes the
// cross-company summary statistics.
func NewBatchSummary(results []*contracts.IntrinsicValueResult, failed map[string]string) *BatchSummary {
	sorted := make([]*contracts.IntrinsicValueResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UpsidePct > sorted[j].UpsidePct
	})

	s := &BatchSummary{
		Results:     sorted,
		Failed:      failed,
		GeneratedAt: time.Now().UTC(),
	}
	if len(sorted) > 0 {
		upsides := make([]float64, len(sorted))
		for i, r := range sorted {
			upsides[i] = r.UpsidePct
		}
		s.MeanUpside = stat.Mean(upsides, nil)
		sort.Float64s(upsides)
		s.MedianUpside = stat.Quantile(0.5, stat.Empirical, upsides, nil)
	}
	return s
}

// WriteComparison renders the batch comparison table
func (s *BatchSummary) WriteComparison(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tPRICE\tINTRINSIC\tUPSIDE\tMOS\tCONFIDENCE\tCALL")
	for _, r := range s.Results {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%+.1f%%\t%.1f%%\t%s\t%s\n",
			r.Ticker, r.CurrentPrice, r.IntrinsicValue,
			r.UpsidePct, r.MarginOfSafetyPct, r.Confidence, r.Recommendation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.Results) > 0 {
		fmt.Fprintf(w, "\n%d companies, mean upside %+.1f%%, median %+.1f%%\n",
			len(s.Results), s.MeanUpside, s.MedianUpside)
	}
	for ticker, reason := range s.Failed {
		fmt.Fprintf(w, "skipped %s: %s\n", ticker, reason)
	}
	return nil
}

// SaveBatchJSON writes the batch summary to <dir>/batch_valuation_<date>.json
func SaveBatchJSON(dir string, s *BatchSummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("batch_valuation_%s.json", s.GeneratedAt.Format("2006-01-02")))
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode batch summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
