package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/pricing"
	"github.com/contactkeval/option-iv/internal/quote"
)

// minPlotIV drops near-zero vols, which are solver noise rather than quotes.
const minPlotIV = 1e-4

// IVRow is one row of the /ivs lookup.
type IVRow struct {
	ID             string     `json:"id"`
	ExecutionDate  string     `json:"execution_date"`
	ExpirationDate string     `json:"expiration_date"`
	Kind           string     `json:"type_CP"`
	StrikePrice    string     `json:"strike_price"`
	T              float64    `json:"T"`
	IV             pricing.IV `json:"IV"`
}

// IVFilter narrows an IV lookup. ExecutionDate is required.
type IVFilter struct {
	ExecutionDate  string
	ExpirationDate string
	Kind           string
	T              *float64
}

// SmilePoint is a (strike, IV) pair of one expiry's smile.
type SmilePoint struct {
	Strike float64 `json:"strike"`
	IV     float64 `json:"iv"`
}

// ExecutionDays returns the distinct execution dates, oldest first.
func (s *Store) ExecutionDays(ctx context.Context) ([]string, error) {
	dates, err := s.distinct(ctx, `SELECT DISTINCT execution_date FROM options_data`)
	if err != nil {
		return nil, err
	}
	sortDates(dates)
	return dates, nil
}

// ExpirationDates returns the distinct expirations seen on one execution date.
func (s *Store) ExpirationDates(ctx context.Context, executionDate string) ([]string, error) {
	dates, err := s.distinct(ctx, `SELECT DISTINCT expiration_date FROM options_data WHERE execution_date = ?`, executionDate)
	if err != nil {
		return nil, err
	}
	sortDates(dates)
	return dates, nil
}

func (s *Store) distinct(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// IVs returns the stored rows matching f.
func (s *Store) IVs(ctx context.Context, f IVFilter) ([]IVRow, error) {
	if f.ExecutionDate == "" {
		return nil, fmt.Errorf("execution date is required")
	}

	var (
		where = []string{"execution_date = ?"}
		args  = []any{f.ExecutionDate}
	)
	if f.ExpirationDate != "" {
		where = append(where, "expiration_date = ?")
		args = append(args, f.ExpirationDate)
	}
	if f.Kind != "" {
		where = append(where, "type_CP = ?")
		args = append(args, f.Kind)
	}
	if f.T != nil {
		where = append(where, "abs(CAST(T AS REAL) - ?) < 1e-9")
		args = append(args, *f.T)
	}

	query := `SELECT id, execution_date, expiration_date, type_CP, strike_price, T, IV
		FROM options_data WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ivs: %w", err)
	}
	defer rows.Close()

	out := []IVRow{}
	for rows.Next() {
		var (
			r     IVRow
			tText string
			iv    string
		)
		if err := rows.Scan(&r.ID, &r.ExecutionDate, &r.ExpirationDate, &r.Kind, &r.StrikePrice, &tText, &iv); err != nil {
			return nil, fmt.Errorf("scan iv row: %w", err)
		}
		r.T, _ = strconv.ParseFloat(tText, 64)
		r.IV = pricing.ParseIV(iv)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Smile returns the (strike, IV) points of one expiry and kind, strike
// ascending. Rows with undefined or near-zero IV, or an unreadable strike,
// are left out.
func (s *Store) Smile(ctx context.Context, executionDate, expirationDate string, kind instrument.OptionKind) ([]SmilePoint, error) {
	rows, err := s.IVs(ctx, IVFilter{ExecutionDate: executionDate, ExpirationDate: expirationDate, Kind: string(kind)})
	if err != nil {
		return nil, err
	}

	points := make([]SmilePoint, 0, len(rows))
	for _, r := range rows {
		iv, ok := r.IV.Value()
		if !ok || iv <= minPlotIV {
			continue
		}
		strike, err := quote.ParseLocaleDecimal(r.StrikePrice)
		if err != nil || math.IsNaN(strike) {
			continue
		}
		points = append(points, SmilePoint{Strike: strike, IV: iv})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Strike < points[j].Strike })
	return points, nil
}

// sortDates orders dd-mm-yyyy text chronologically; unparsable values sort
// last, lexically.
func sortDates(dates []string) {
	parsed := make(map[string]time.Time, len(dates))
	for _, d := range dates {
		if t, err := instrument.ParseDate(d); err == nil {
			parsed[d] = t
		}
	}
	sort.SliceStable(dates, func(i, j int) bool {
		ti, iok := parsed[dates[i]]
		tj, jok := parsed[dates[j]]
		switch {
		case iok && jok:
			return ti.Before(tj)
		case iok != jok:
			return iok
		default:
			return dates[i] < dates[j]
		}
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
