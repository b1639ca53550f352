package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/pricing"
	"github.com/contactkeval/option-iv/internal/quote"
)

// Builder turns raw rows into records.
type Builder struct {
	Valuer Valuer

	// ExecutionDate (dd-mm-yyyy) stamps rows that carry no date of their own.
	ExecutionDate string

	// Workers > 1 values rows concurrently. Output order always matches input.
	Workers int
}

// Result is the outcome of one Build pass.
type Result struct {
	Records []Record
	Skipped []RowError
}

// Undefined counts records without an implied volatility.
func (r *Result) Undefined() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.IV.IsDefined() {
			n++
		}
	}
	return n
}

// BuildRow decodes and values a single row. Only a malformed code or an
// unreadable execution date is an error; bad prices yield an undefined IV.
func (b *Builder) BuildRow(row RawRow) (Record, error) {
	code := row.Code
	parsed, err := instrument.Parse(code)
	if err != nil {
		return Record{}, err
	}

	execDate := strings.TrimSpace(row.ExecutionDate)
	if execDate == "" {
		execDate = b.ExecutionDate
	}
	snap, err := instrument.ParseDate(execDate)
	if err != nil {
		return Record{}, fmt.Errorf("execution date: %w", err)
	}

	rec := Record{
		ExecutionDate:   execDate,
		UnderlyingPrice: strings.TrimSpace(row.UnderlyingPrice),
		Kind:            parsed.Kind,
		Style:           parsed.Style,
		ExpirationDate:  parsed.ExpirationDate(),
		StrikePrice:     strings.TrimSpace(row.StrikePrice),
		OptionPrice:     strings.TrimSpace(row.OptionPrice),
		T:               pricing.TimeToExpiry(snap, parsed.Expiration),
		Code:            code,
	}

	q, err := quote.New(snap, parsed, quote.Prices{
		Underlying: rec.UnderlyingPrice,
		Strike:     rec.StrikePrice,
		Premium:    rec.OptionPrice,
	})
	if err != nil {
		rec.IV = pricing.UndefinedIV(err)
		return rec, nil
	}

	logger.WithFields(logrus.Fields{
		"code": code, "S": q.Underlying, "K": q.Strike, "T": rec.T,
		"r": b.Valuer.RiskFreeRate, "price": q.Premium,
	}).Trace("solving implied volatility")

	rec.IV = b.Valuer.Value(q).IV
	return rec, nil
}

// Build values every row. Rows that cannot be decoded are reported in
// Result.Skipped and never stop the batch; only context cancellation does.
func (b *Builder) Build(ctx context.Context, rows []RawRow) (*Result, error) {
	records := make([]Record, len(rows))
	errs := make([]error, len(rows))

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range rows {
		if err := gctx.Err(); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i], errs[i] = b.BuildRow(rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Records: make([]Record, 0, len(rows))}
	for i, err := range errs {
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Index: i, Row: rows[i], Err: err})
			logRowSkipped(i, rows[i], err)
			continue
		}
		rec := records[i]
		if !rec.IV.IsDefined() {
			logger.WithFields(logrus.Fields{
				"code": rec.Code, "strike": rec.StrikePrice, "T": rec.T,
			}).Debugf("implied volatility undefined: %v", rec.IV.Reason())
		}
		res.Records = append(res.Records, rec)
	}

	logger.Infof("snapshot %s: %d records, %d skipped, %d without IV",
		b.ExecutionDate, len(res.Records), len(res.Skipped), res.Undefined())
	return res, nil
}

func logRowSkipped(i int, row RawRow, err error) {
	var mce *instrument.MalformedCodeError
	if errors.As(err, &mce) {
		logger.Warnf("row %d skipped: %v", i, err)
		return
	}
	logger.Warnf("row %d (%s) skipped: %v", i, row.Code, err)
}
