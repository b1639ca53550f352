package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/snapshot"
)

func WriteJSON(recs []snapshot.Record, outdir string) error {
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "records.json"), b, 0644)
}

func WriteCSV(recs []snapshot.Record, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "records.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&recs, f)
}

// Group summarizes the implied volatilities of one expiry and kind.
type Group struct {
	ExpirationDate string
	Kind           instrument.OptionKind
	T              float64
	Contracts      int
	Defined        int
	Min            float64
	Median         float64
	Mean           float64
	Max            float64
}

// Summarize groups records by expiry and kind, ordered by T then kind.
func Summarize(recs []snapshot.Record) []Group {
	type key struct {
		exp  string
		kind instrument.OptionKind
	}
	groups := map[key]*Group{}
	ivs := map[key][]float64{}

	for _, r := range recs {
		k := key{r.ExpirationDate, r.Kind}
		g, ok := groups[k]
		if !ok {
			g = &Group{ExpirationDate: r.ExpirationDate, Kind: r.Kind, T: r.T}
			groups[k] = g
		}
		g.Contracts++
		if v, ok := r.IV.Value(); ok {
			g.Defined++
			ivs[k] = append(ivs[k], v)
		}
	}

	out := make([]Group, 0, len(groups))
	for k, g := range groups {
		if data := stats.Float64Data(ivs[k]); len(data) > 0 {
			g.Min, _ = data.Min()
			g.Median, _ = data.Median()
			g.Mean, _ = data.Mean()
			g.Max, _ = data.Max()
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].T != out[j].T {
			return out[i].T < out[j].T
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

// PrintSummary renders Summarize as a table.
func PrintSummary(w io.Writer, recs []snapshot.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Expiry", "Type", "T", "Contracts", "IV found", "Min", "Median", "Mean", "Max"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, g := range Summarize(recs) {
		row := []string{g.ExpirationDate, string(g.Kind), fmt.Sprintf("%.4f", g.T), fmt.Sprintf("%d", g.Contracts), fmt.Sprintf("%d", g.Defined)}
		if g.Defined == 0 {
			row = append(row, "-", "-", "-", "-")
		} else {
			row = append(row, pct(g.Min), pct(g.Median), pct(g.Mean), pct(g.Max))
		}
		table.Append(row)
	}
	table.Render()
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
