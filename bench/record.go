package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"t", "theta_deg", "alpha", "beta", "mode", "sector", "ma", "mb", "mc", "vcm"}

// WriteCSV writes one row per record. With filtered set the low-pass
// duty averages are appended as fa, fb, fc.
func WriteCSV(w io.Writer, recs []Record, filtered bool) error {
	cw := csv.NewWriter(w)

	header := csvHeader
	if filtered {
		header = append(append([]string(nil), csvHeader...), "fa", "fb", "fc")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
	row := make([]string, 0, len(header))
	for i, r := range recs {
		row = append(row[:0],
			f(r.T), f(r.ThetaDeg), f(r.Alpha), f(r.Beta),
			r.Mode.String(), strconv.Itoa(r.Sector),
			f(r.Duty.A()), f(r.Duty.B()), f(r.Duty.C()), f(r.CommonMode()),
		)
		if filtered {
			row = append(row, f(r.Filtered[0]), f(r.Filtered[1]), f(r.Filtered[2]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
