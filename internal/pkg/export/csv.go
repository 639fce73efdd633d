package export

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the header followed by rows; fields with commas or quotes are quoted.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
