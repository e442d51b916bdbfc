package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestEncode(t *testing.T) {
	t.Parallel()

	until := time.Date(2024, 6, 30, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		opt     Options
		want    string
		wantErr string
	}{
		{
			name: "weekly byday",
			opt: Options{
				Frequency: FreqWeekly,
				Interval:  2,
				ByDay:     []string{"mo", "we", "FR"},
			},
			want: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE,FR",
		},
		{
			name: "frequency kosong fallback daily",
			opt:  Options{},
			want: "FREQ=DAILY;INTERVAL=1",
		},
		{
			name: "interval nol dianggap satu",
			opt:  Options{Frequency: FreqMonthly, Interval: 0},
			want: "FREQ=MONTHLY;INTERVAL=1",
		},
		{
			name: "until diformat UTC basic",
			opt:  Options{Frequency: FreqDaily, Until: &until},
			want: "FREQ=DAILY;INTERVAL=1;UNTIL=20240630T103000Z",
		},
		{
			name: "count positif",
			opt:  Options{Frequency: FreqDaily, Count: intPtr(5)},
			want: "FREQ=DAILY;INTERVAL=1;COUNT=5",
		},
		{
			name: "semua field urutan kanonik",
			opt: Options{
				Frequency:  FreqYearly,
				Interval:   1,
				Until:      &until,
				Count:      intPtr(10),
				ByDay:      []string{"SU"},
				ByMonth:    []int{12, 1},
				ByMonthDay: []int{15, 1},
			},
			want: "FREQ=YEARLY;INTERVAL=1;UNTIL=20240630T103000Z;COUNT=10;BYDAY=SU;BYMONTH=1,12;BYMONTHDAY=1,15",
		},
		{
			name:    "frequency tidak dikenal",
			opt:     Options{Frequency: "HOURLY"},
			wantErr: "frequency tidak dikenal",
		},
		{
			name:    "kode hari tidak dikenal",
			opt:     Options{Frequency: FreqWeekly, ByDay: []string{"XX"}},
			wantErr: "kode hari tidak dikenal",
		},
		{
			name:    "count nol ditolak",
			opt:     Options{Frequency: FreqDaily, Count: intPtr(0)},
			wantErr: "count harus positif",
		},
		{
			name:    "bulan di luar rentang",
			opt:     Options{Frequency: FreqMonthly, ByMonth: []int{13}},
			wantErr: "bulan di luar rentang",
		},
		{
			name:    "tanggal di luar rentang",
			opt:     Options{Frequency: FreqMonthly, ByMonthDay: []int{32}},
			wantErr: "tanggal di luar rentang",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Encode(tt.opt)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	opt := Options{
		Frequency: FreqWeekly,
		Interval:  3,
		ByDay:     []string{"TU", "TH"},
		ByMonth:   []int{6, 3},
	}
	first, err := Encode(opt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Encode(opt)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWeekdayOrdinal(t *testing.T) {
	t.Parallel()

	// Skema tetap MO=0 … SU=6
	expected := map[string]int{"MO": 0, "TU": 1, "WE": 2, "TH": 3, "FR": 4, "SA": 5, "SU": 6}
	for code, want := range expected {
		got, ok := WeekdayOrdinal(code)
		require.True(t, ok, code)
		assert.Equal(t, want, got, code)
	}

	_, ok := WeekdayOrdinal("ZZ")
	assert.False(t, ok)
}
