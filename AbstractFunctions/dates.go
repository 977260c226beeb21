package AbstractFunctions

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	locMu    sync.RWMutex
	location = time.Local
)

// SetLocation changes the zone used to interpret zone-less date strings
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	locMu.Lock()
	location = loc
	locMu.Unlock()
}

// Location returns the zone used to interpret zone-less date strings
func Location() *time.Location {
	locMu.RLock()
	defer locMu.RUnlock()
	return location
}

var (
	legacyDateTime = regexp.MustCompile(`(?i)^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})[\s,]+(?:at\s+)?(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([ap]\.?m\.?)?$`)
	legacyDate     = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})$`)
	excelSerial    = regexp.MustCompile(`^\d{4,6}(\.\d+)?$`)

	clockLayouts = []string{"3:04pm", "3:04:05pm", "15:04", "15:04:05"}

	fallbackLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"02 Jan 2006 15:04",
		"02 Jan 2006",
		"Jan 2, 2006 3:04 PM",
		"Jan 2, 2006",
		"January 2, 2006",
	}
)

// LegacyLayout is the format the FMS sheet uses for planned/actual cells
const LegacyLayout = "2/1/06 at 3:04pm"

// ParseLegacyDateTime parses the free-text date strings found in FMS and
// checklist rows, e.g. "5/9/25 at 4:30pm", "05/09/2025 16:30", "05/09/2025"
// or a raw Excel serial such as "45905.6875".
// Dates are day-first. Empty strings and "n/a" are absent values.
func ParseLegacyDateTime(text string) (time.Time, bool) {
	return ParseLegacyDateTimeIn(text, Location())
}

// ParseLegacyDateTimeIn is ParseLegacyDateTime with an explicit location
func ParseLegacyDateTimeIn(text string, loc *time.Location) (time.Time, bool) {
	s := strings.Join(strings.Fields(text), " ")
	if s == "" || strings.EqualFold(s, "n/a") {
		return time.Time{}, false
	}

	if m := legacyDateTime.FindStringSubmatch(s); m != nil {
		if t, ok := parseDateTimeParts(m, loc); ok {
			return t, true
		}
	} else if excelSerial.MatchString(s) {
		if t, ok := excelSerialIn(s, loc); ok {
			return t, true
		}
	} else if m := legacyDate.FindStringSubmatch(s); m != nil {
		date := fmt.Sprintf("%s/%s/%04d", m[1], m[2], expandYear(m[3]))
		if t, err := time.ParseInLocation("2/1/2006", date, loc); err == nil {
			return t, true
		}
	} else {
		for _, layout := range fallbackLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
	}

	log.Printf("Unparseable date %q", text)
	return time.Time{}, false
}

func parseDateTimeParts(m []string, loc *time.Location) (time.Time, bool) {
	clock := m[4] + ":" + m[5]
	if m[6] != "" {
		clock += ":" + m[6]
	}
	if m[7] != "" {
		clock += strings.ToLower(strings.ReplaceAll(m[7], ".", ""))
	}
	date := fmt.Sprintf("%s/%s/%04d", m[1], m[2], expandYear(m[3]))

	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation("2/1/2006 "+layout, date+" "+clock, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// excelSerialIn reads a raw Excel date serial as wall-clock time in loc
func excelSerialIn(s string, loc *time.Location) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

// GetFormattedDateExcel turns a raw Excel date serial into the legacy sheet
// format. Anything that is not a serial is returned trimmed and unchanged.
func GetFormattedDateExcel(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if !excelSerial.MatchString(value) {
		return value, false
	}
	t, ok := excelSerialIn(value, Location())
	if !ok {
		return value, false
	}
	return FormatLegacy(t), true
}

// expandYear infers the century of a two-digit year: <70 is 20xx, otherwise 19xx
func expandYear(y string) int {
	n, _ := strconv.Atoi(y)
	if len(y) == 4 {
		return n
	}
	if n < 70 {
		return 2000 + n
	}
	return 1900 + n
}

// CombineDateTime joins a YYYY-MM-DD date column with an optional HH:MM[:SS] column.
// A missing clock means midnight.
func CombineDateTime(date, clock string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return ParseLegacyDateTime(date)
	}
	return ParseLegacyDateTime(date + " " + clock)
}

// Deadline is like CombineDateTime, except a missing clock means the end of that day
func Deadline(date, clock string) (time.Time, bool) {
	t, ok := CombineDateTime(date, clock)
	if !ok {
		return t, false
	}
	if strings.TrimSpace(clock) == "" && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, true
}

// FormatLegacy renders a time the way the FMS sheet writes it
func FormatLegacy(t time.Time) string {
	return t.In(Location()).Format(LegacyLayout)
}
