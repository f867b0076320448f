package data

import (
	"strings"
	"testing"
	"time"
)

func TestParseMeterCSV(t *testing.T) {
	in := `start,end,usage
2023-01-01,2023-02-01,412.5
2023-02-01,2023-03-01,
2023-03-01T00:00:00Z,2023-04-01T00:00:00Z,388
`
	periods, err := parseMeterCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("period count = %d, want 3", len(periods))
	}
	if periods[0].Usage == nil || *periods[0].Usage != 412.5 {
		t.Fatalf("usage[0] = %v, want 412.5", periods[0].Usage)
	}
	if periods[1].Usage != nil {
		t.Fatal("blank usage must stay nil, not zero")
	}
	want := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	if !periods[2].Start.Equal(want) {
		t.Fatalf("start[2] = %v, want %v", periods[2].Start, want)
	}
}

func TestParseMeterCSVWithoutHeader(t *testing.T) {
	periods, err := parseMeterCSV(strings.NewReader("2023-01-01,2023-01-02,10\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("period count = %d, want 1", len(periods))
	}
}

func TestParseMeterCSVRejectsBadRows(t *testing.T) {
	cases := []string{
		"start,end,usage\nnot-a-date,2023-01-02,10\n",
		"start,end,usage\n2023-01-01,2023-01-02,abc\n",
		"start,end,usage\n2023-01-01,2023-01-02\n",
		"",
	}
	for _, in := range cases {
		if _, err := parseMeterCSV(strings.NewReader(in)); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestParseTemperatureCSV(t *testing.T) {
	in := `timestamp,temperature
2023-01-01 00:00:00,41.2
2023-01-01 01:00:00,40.8
`
	series, err := parseTemperatureCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("sample count = %d, want 2", len(series))
	}
	if series[1].Value != 40.8 {
		t.Fatalf("value[1] = %v, want 40.8", series[1].Value)
	}
	if series[0].Timestamp.Location() != time.UTC {
		t.Fatal("timestamps must be normalized to UTC")
	}
}

func TestParseTemperatureCSVRejectsBadValue(t *testing.T) {
	if _, err := parseTemperatureCSV(strings.NewReader("2023-01-01 00:00:00,warm\n")); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}
