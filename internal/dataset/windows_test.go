package dataset

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMonthlyWindows_MidMonthStart(t *testing.T) {
	windows := MonthlyWindows(date("2022-01-15"), date("2022-04-01"))

	wantStarts := []string{"2022-01-15", "2022-02-15", "2022-03-15"}
	wantEnds := []string{"2022-02-14", "2022-03-14", "2022-04-01"}

	if len(windows) != len(wantStarts) {
		t.Fatalf("got %d windows, want %d", len(windows), len(wantStarts))
	}
	for i, w := range windows {
		if got := w.Start.Format("2006-01-02"); got != wantStarts[i] {
			t.Errorf("window %d start = %s, want %s", i, got, wantStarts[i])
		}
		if got := w.End.Format("2006-01-02"); got != wantEnds[i] {
			t.Errorf("window %d end = %s, want %s", i, got, wantEnds[i])
		}
	}
}

func TestMonthlyWindows_SingleMonth(t *testing.T) {
	windows := MonthlyWindows(date("2023-06-01"), date("2023-07-01"))
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	if got := windows[0].Month(); got != "2023-06" {
		t.Errorf("Month() = %s, want 2023-06", got)
	}
	if got := windows[0].End.Format("2006-01-02"); got != "2023-06-30" {
		t.Errorf("end = %s, want 2023-06-30", got)
	}
}

func TestMonthlyWindows_Degenerate(t *testing.T) {
	if windows := MonthlyWindows(date("2022-04-01"), date("2022-04-01")); len(windows) != 0 {
		t.Errorf("start == end: got %d windows, want 0", len(windows))
	}
	if windows := MonthlyWindows(date("2022-05-01"), date("2022-04-01")); len(windows) != 0 {
		t.Errorf("start > end: got %d windows, want 0", len(windows))
	}
}

func TestMonthlyWindows_EndOfMonthClamping(t *testing.T) {
	windows := MonthlyWindows(date("2022-01-31"), date("2022-04-01"))
	wantStarts := []string{"2022-01-31", "2022-02-28", "2022-03-31"}
	if len(windows) != len(wantStarts) {
		t.Fatalf("got %d windows, want %d", len(windows), len(wantStarts))
	}
	for i, w := range windows {
		if got := w.Start.Format("2006-01-02"); got != wantStarts[i] {
			t.Errorf("window %d start = %s, want %s", i, got, wantStarts[i])
		}
	}
}

func TestAddMonths_LeapFebruary(t *testing.T) {
	got := addMonths(date("2024-01-31"), 1)
	if want := "2024-02-29"; got.Format("2006-01-02") != want {
		t.Errorf("addMonths = %s, want %s", got.Format("2006-01-02"), want)
	}
}
