package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Clock diinjeksikan supaya "sekarang" bisa dipatok di test.
// Horizon default expand bergantung wall-clock (lihat Expand), jadi tanpa
// injeksi ini hasilnya tidak deterministik.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

var SystemClock Clock = ClockFunc(time.Now)

// FixedClock mengembalikan Clock yang selalu menjawab t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Expand menghasilkan daftar instant occurrence yang terurut naik dan bebas
// duplikat dari satu rule string, dengan start sebagai dtstart efektif.
//
// Batas: start dan hardEnd sama-sama inklusif. Kalau hardEnd nil, horizon
// default = satu tahun dari clock.Now() — cap pragmatis agar pola tanpa batas
// tidak meledak, dengan konsekuensi output ikut waktu pemanggilan (impurity
// yang disengaja dan terdokumentasi).
//
// COUNT di dalam rule tetap dihormati oleh engine; horizon memotong sisanya.
// Mana pun yang menghasilkan lebih sedikit instant, itu yang menang.
func Expand(ruleString string, start time.Time, hardEnd *time.Time, clock Clock) ([]time.Time, error) {
	if ruleString == "" {
		return nil, errors.New("rule string kosong")
	}
	if clock == nil {
		clock = SystemClock
	}

	r, err := rrule.StrToRRule(ruleString)
	if err != nil {
		return nil, fmt.Errorf("parse rule %q: %w", ruleString, err)
	}

	start = start.UTC().Truncate(time.Second)
	r.DTStart(start)

	end := clock.Now().UTC().AddDate(1, 0, 0)
	if hardEnd != nil {
		end = hardEnd.UTC().Truncate(time.Second)
	}
	if end.Before(start) {
		// degenerate: batas mendahului occurrence pertama → kosong, bukan error
		return nil, nil
	}

	var set rrule.Set
	set.RRule(r)

	times := set.Between(start, end, true)

	// Guard dedup + urutan naik (restartable dari input yang sama).
	out := make([]time.Time, 0, len(times))
	for _, t := range times {
		t = t.UTC()
		if n := len(out); n > 0 && !out[n-1].Before(t) {
			if out[n-1].Equal(t) {
				continue
			}
		}
		out = append(out, t)
	}
	return out, nil
}
