package data

import (
	"context"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/snapshot"
)

// localCSVProvider reads a snapshot previously saved as CSV with the header
// code,execution_date,price_today,strike_price,last_option_price.
type localCSVProvider struct {
	path string
}

// NewLocalCSVProvider convenience constructor.
func NewLocalCSVProvider(path string) *localCSVProvider {
	return &localCSVProvider{path: path}
}

func (localCSVProv *localCSVProvider) GetSnapshotRows(ctx context.Context) ([]snapshot.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(localCSVProv.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer f.Close()

	var rows []snapshot.RawRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("read snapshot csv %s: %w", localCSVProv.path, err)
	}

	logger.Debugf("read %d raw rows from %s", len(rows), localCSVProv.path)
	return rows, nil
}

// WriteSnapshotCSV saves raw rows in the format read by NewLocalCSVProvider.
func WriteSnapshotCSV(path string, rows []snapshot.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write snapshot csv: %w", err)
	}
	return nil
}
