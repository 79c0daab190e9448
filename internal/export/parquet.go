// Package export writes parsed interchange records in columnar form.
package export

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/drfirst/go-x12/internal/x12"
)

// RecordParquet is one navigable record of an interchange
type RecordParquet struct {
	Source     string `parquet:"source"`
	ID         string `parquet:"id"`
	Label      string `parquet:"label"`
	Value      string `parquet:"value"`
	Type       string `parquet:"type,dict"`
	StartIndex int32  `parquet:"start_index"`
}

const parquetFlushInterval = 100_000

// WriteRecordsParquet writes recs to w as a Snappy compressed parquet file
// and returns the number of rows written. source tags every row, usually
// with the input file name or interchange id.
func WriteRecordsParquet(w io.Writer, source string, recs []x12.Record) (int64, error) {
	writer := parquet.NewGenericWriter[RecordParquet](w,
		parquet.Compression(&parquet.Snappy),
	)

	var n int64
	batch := make([]RecordParquet, 0, min(len(recs), parquetFlushInterval))
	for _, rec := range recs {
		batch = append(batch, RecordParquet{
			Source:     source,
			ID:         rec.ID,
			Label:      rec.Label,
			Value:      rec.Value,
			Type:       string(rec.Type),
			StartIndex: int32(rec.StartIndex),
		})
		if len(batch) == parquetFlushInterval {
			if err := writeBatch(writer, batch); err != nil {
				return n, err
			}
			n += int64(len(batch))
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if _, err := writer.Write(batch); err != nil {
			return n, fmt.Errorf("failed to write parquet records: %w", err)
		}
		n += int64(len(batch))
	}

	if err := writer.Close(); err != nil {
		return n, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return n, nil
}

// writeBatch writes a full batch and closes its row group
func writeBatch(writer *parquet.GenericWriter[RecordParquet], batch []RecordParquet) error {
	if _, err := writer.Write(batch); err != nil {
		return fmt.Errorf("failed to write parquet records: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush parquet row group: %w", err)
	}
	return nil
}
