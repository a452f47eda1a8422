package booking

import (
	"reflect"
	"testing"
)

func TestHourOptions(t *testing.T) {
	tests := []struct {
		name  string
		court *Court
		want  []string
	}{
		{
			name:  "same day range",
			court: &Court{OpensAt: "06:00", ClosesAt: "10:00"},
			want:  []string{"06:00", "07:00", "08:00", "09:00"},
		},
		{
			name:  "wraps past midnight",
			court: &Court{OpensAt: "20:00", ClosesAt: "02:00"},
			want:  []string{"20:00", "21:00", "22:00", "23:00", "00:00", "01:00"},
		},
		{
			name:  "minutes are ignored",
			court: &Court{OpensAt: "07:30", ClosesAt: "09:45"},
			want:  []string{"07:00", "08:00"},
		},
		{
			name:  "unparsable open defaults to midnight",
			court: &Court{OpensAt: "abc", ClosesAt: "03:00"},
			want:  []string{"00:00", "01:00", "02:00"},
		},
		{
			name:  "unparsable close defaults to 23",
			court: &Court{OpensAt: "20:00", ClosesAt: "late"},
			want:  []string{"20:00", "21:00", "22:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HourOptions(tt.court)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("HourOptions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHourOptionsFallback(t *testing.T) {
	fallback := FallbackHours()
	if len(fallback) != 24 {
		t.Fatalf("fallback length: %d", len(fallback))
	}
	if fallback[0] != "00:00" || fallback[23] != "23:00" {
		t.Fatalf("fallback bounds: %s..%s", fallback[0], fallback[23])
	}

	if got := HourOptions(nil); !reflect.DeepEqual(got, fallback) {
		t.Fatalf("nil court: %v", got)
	}
	if got := HourOptions(&Court{OpensAt: "08:00", ClosesAt: "08:00"}); !reflect.DeepEqual(got, fallback) {
		t.Fatalf("open == close: %v", got)
	}
}

func TestHourOptionsSameDayCountAndOrder(t *testing.T) {
	for open := 0; open < 23; open++ {
		for close := open + 1; close < 24; close++ {
			court := &Court{OpensAt: formatHour(open), ClosesAt: formatHour(close)}
			got := HourOptions(court)
			if len(got) != close-open {
				t.Fatalf("%d-%d: expected %d entries, got %d", open, close, close-open, len(got))
			}
			for i := 1; i < len(got); i++ {
				if got[i-1] >= got[i] {
					t.Fatalf("%d-%d: not ascending at %d: %v", open, close, i, got)
				}
			}
		}
	}
}

func TestHourNumber(t *testing.T) {
	if hour, err := HourNumber("14:00"); err != nil || hour != 14 {
		t.Fatalf("HourNumber(14:00) = %d, %v", hour, err)
	}
	for _, raw := range []string{"", "xx:00", "24:00", "-1:00"} {
		if _, err := HourNumber(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
