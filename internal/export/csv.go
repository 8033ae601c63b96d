// Package export serializes aggregated pairing statistics for delivery.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/brewlog/brewbot-server-go/internal/model"
)

// Header column order is part of the report contract.
var csvHeader = []string{"Username", "Display name", "# coffee chats", "User ID"}

// RenderCSV serializes stats into RFC 4180 CSV. The output is a
// deterministic byte sequence for a given ordered input: one data row
// per stat, values exactly as supplied.
func RenderCSV(stats []model.PairingStat) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range stats {
		row := []string{s.Handle, s.DisplayName, strconv.Itoa(s.Count), s.ID}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
