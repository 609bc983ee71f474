package sink

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the civil date-time format of the Timestamp column,
// in local time with second resolution.
const TimestampLayout = time.DateTime

// Header is the fixed first row of a new log file.
var Header = []string{"Timestamp", "CPU_Usage_Percent", "Memory_Usage_Percent"}

// Row is one sample as written to the log.
type Row struct {
	Time          time.Time
	CPUPercent    float64
	MemoryPercent float64
}

// Timestamp returns the formatted Timestamp column.
func (r Row) Timestamp() string {
	return r.Time.Format(TimestampLayout)
}

// Record returns the CSV fields of the row.
func (r Row) Record() []string {
	return []string{r.Timestamp(), FormatPercent(r.CPUPercent), FormatPercent(r.MemoryPercent)}
}

// FormatPercent renders v in its shortest exact form, always with a decimal
// point so the column reads as a float ("3.0", "12.5").
func FormatPercent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
