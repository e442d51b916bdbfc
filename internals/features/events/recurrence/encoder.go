// Package recurrence berisi komponen murni untuk pola perulangan event:
// encoder (parameter → string kanonik) dan expander (string + rentang → daftar instant).
package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
	FreqYearly  Frequency = "YEARLY"
)

// Skema ordinal weekday tetap: MO=0 … SU=6 (mengikuti rrule).
// Kode di luar daftar ini gagal encode.
var weekdayCodes = map[string]rrule.Weekday{
	"MO": rrule.MO,
	"TU": rrule.TU,
	"WE": rrule.WE,
	"TH": rrule.TH,
	"FR": rrule.FR,
	"SA": rrule.SA,
	"SU": rrule.SU,
}

// Options adalah parameter perulangan terstruktur dari caller.
// Start (anchor/dtstart) tidak ikut di-encode ke string; ia tercatat sebagai
// recurrence_rule_start_at dan dipakai expander sebagai dtstart efektif.
type Options struct {
	Frequency  Frequency  // kosong → fallback DAILY (kebijakan terdokumentasi, bukan error)
	Interval   int        // <1 dianggap 1
	Count      *int       // cap jumlah occurrence
	Until      *time.Time // batas akhir pola (UTC saat encode)
	ByDay      []string   // kode dua huruf: MO..SU
	ByMonth    []int      // 1..12
	ByMonthDay []int      // 1..31
}

// Encode menghasilkan string rule kanonik:
// FREQ=...;INTERVAL=...;UNTIL=...;COUNT=...;BYDAY=...;BYMONTH=...;BYMONTHDAY=...
// Hanya field yang benar-benar ada yang ditulis (FREQ & INTERVAL selalu ada).
// Murni: input sama → output sama, tanpa ketergantungan waktu.
func Encode(opt Options) (string, error) {
	freq := opt.Frequency
	if freq == "" {
		freq = FreqDaily
	}
	switch freq {
	case FreqDaily, FreqWeekly, FreqMonthly, FreqYearly:
	default:
		return "", fmt.Errorf("frequency tidak dikenal: %q", opt.Frequency)
	}

	interval := opt.Interval
	if interval < 1 {
		interval = 1
	}

	parts := []string{
		"FREQ=" + string(freq),
		"INTERVAL=" + strconv.Itoa(interval),
	}

	if opt.Until != nil {
		parts = append(parts, "UNTIL="+opt.Until.UTC().Format("20060102T150405Z"))
	}
	if opt.Count != nil {
		if *opt.Count < 1 {
			return "", fmt.Errorf("count harus positif: %d", *opt.Count)
		}
		parts = append(parts, "COUNT="+strconv.Itoa(*opt.Count))
	}

	if len(opt.ByDay) > 0 {
		codes := make([]string, 0, len(opt.ByDay))
		for _, raw := range opt.ByDay {
			code := strings.ToUpper(strings.TrimSpace(raw))
			if _, ok := weekdayCodes[code]; !ok {
				return "", fmt.Errorf("kode hari tidak dikenal: %q", raw)
			}
			codes = append(codes, code)
		}
		parts = append(parts, "BYDAY="+strings.Join(codes, ","))
	}

	if len(opt.ByMonth) > 0 {
		months, err := joinInts(opt.ByMonth, 1, 12, "bulan")
		if err != nil {
			return "", err
		}
		parts = append(parts, "BYMONTH="+months)
	}

	if len(opt.ByMonthDay) > 0 {
		days, err := joinInts(opt.ByMonthDay, 1, 31, "tanggal")
		if err != nil {
			return "", err
		}
		parts = append(parts, "BYMONTHDAY="+days)
	}

	return strings.Join(parts, ";"), nil
}

// WeekdayOrdinal mengembalikan ordinal tetap (MO=0 … SU=6) untuk kode hari.
func WeekdayOrdinal(code string) (int, bool) {
	wd, ok := weekdayCodes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return 0, false
	}
	return wd.Day(), true
}

func joinInts(vals []int, min, max int, label string) (string, error) {
	sorted := append([]int(nil), vals...)
	sort.Ints(sorted)
	out := make([]string, 0, len(sorted))
	for _, v := range sorted {
		if v < min || v > max {
			return "", fmt.Errorf("%s di luar rentang %d..%d: %d", label, min, max, v)
		}
		out = append(out, strconv.Itoa(v))
	}
	return strings.Join(out, ","), nil
}
