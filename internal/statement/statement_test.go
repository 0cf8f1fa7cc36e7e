package statement

import (
	"testing"
)

func TestNewZeroFills(t *testing.T) {
	st, err := New("2024-01", "2024-06", []string{ColNetOperatingIncome, ColInterestExpense})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	dates := st.Dates()
	expected := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}
	if len(dates) != len(expected) {
		t.Fatalf("Dates() returned %d months, expected %d", len(dates), len(expected))
	}
	for i, date := range expected {
		if dates[i] != date {
			t.Errorf("Dates()[%d] = %s, expected %s", i, dates[i], date)
		}
	}

	for _, date := range dates {
		for _, column := range st.Columns() {
			if got := st.Get(date, column); got != 0 {
				t.Errorf("Get(%s, %s) = %.2f, expected 0 for a fresh statement", date, column, got)
			}
		}
	}
}

func TestNewRejectsBadDates(t *testing.T) {
	if _, err := New("not-a-date", "2024-06", nil); err == nil {
		t.Errorf("New() expected error for unparseable start date")
	}
}

func TestSetAndAdd(t *testing.T) {
	st, err := New("2024-01", "2024-03", []string{ColNetOperatingIncome})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	st.Set("2024-02", ColNetOperatingIncome, 1000)
	if got := st.Get("2024-02", ColNetOperatingIncome); got != 1000 {
		t.Errorf("Get() after Set = %.2f, expected 1000", got)
	}

	st.Add("2024-02", ColNetOperatingIncome, 250)
	if got := st.Get("2024-02", ColNetOperatingIncome); got != 1250 {
		t.Errorf("Get() after Add = %.2f, expected 1250", got)
	}

	// Dates outside the range are silently ignored.
	st.Set("2023-12", ColNetOperatingIncome, 500)
	st.Add("2024-04", ColNetOperatingIncome, 500)
	if st.Covers("2023-12") || st.Covers("2024-04") {
		t.Errorf("out-of-range posting created a row")
	}
	if got := st.Get("2023-12", ColNetOperatingIncome); got != 0 {
		t.Errorf("Get() on out-of-range date = %.2f, expected 0", got)
	}
}

func TestRowTotal(t *testing.T) {
	st, err := New("2024-01", "2024-01", []string{ColNetOperatingIncome, ColInterestExpense, ColDSCR})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	st.Set("2024-01", ColNetOperatingIncome, 8000)
	st.Set("2024-01", ColInterestExpense, -3000)
	st.Set("2024-01", ColDSCR, 1.5)

	if got := st.RowTotal("2024-01"); got != 5001.5 {
		t.Errorf("RowTotal() = %.2f, expected 5001.50", got)
	}
	if got := st.RowTotal("2024-01", ColDSCR); got != 5000 {
		t.Errorf("RowTotal() skipping ratio column = %.2f, expected 5000", got)
	}
}

func TestAddStatementLinearity(t *testing.T) {
	columns := []string{ColNetOperatingIncome, ColInterestExpense}

	target, err := New("2024-01", "2024-03", columns)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	target.Set("2024-01", ColNetOperatingIncome, 100)

	// Wider than the target on both ends; only overlapping months land.
	other, err := New("2023-11", "2024-05", columns)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	for _, date := range other.Dates() {
		other.Set(date, ColNetOperatingIncome, 10)
		other.Set(date, ColInterestExpense, -5)
	}

	target.AddStatement(other)

	if got := target.Get("2024-01", ColNetOperatingIncome); got != 110 {
		t.Errorf("Get(2024-01) = %.2f, expected 110", got)
	}
	if got := target.Get("2024-03", ColInterestExpense); got != -5 {
		t.Errorf("Get(2024-03) = %.2f, expected -5", got)
	}
	if target.Covers("2024-05") {
		t.Errorf("AddStatement() widened the target's range")
	}

	// Adding nil is a no-op.
	target.AddStatement(nil)
	if got := target.Get("2024-01", ColNetOperatingIncome); got != 110 {
		t.Errorf("Get() after nil AddStatement = %.2f, expected 110", got)
	}
}

func TestClip(t *testing.T) {
	st, err := New("2024-01", "2024-06", []string{ColNetOperatingIncome})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	for _, date := range st.Dates() {
		st.Set(date, ColNetOperatingIncome, 100)
	}

	clipped, err := st.Clip("2024-03", "2024-09")
	if err != nil {
		t.Fatalf("Clip() unexpected error: %v", err)
	}

	dates := clipped.Dates()
	expected := []string{"2024-03", "2024-04", "2024-05", "2024-06"}
	if len(dates) != len(expected) {
		t.Fatalf("Clip() returned %d months, expected %d", len(dates), len(expected))
	}
	for i, date := range expected {
		if dates[i] != date {
			t.Errorf("Dates()[%d] = %s, expected %s", i, dates[i], date)
		}
	}
	// Months beyond the source range are absent, not zero-filled.
	if clipped.Covers("2024-07") {
		t.Errorf("Clip() zero-filled a month beyond the source range")
	}
	if got := clipped.Get("2024-04", ColNetOperatingIncome); got != 100 {
		t.Errorf("Get() on clipped copy = %.2f, expected 100", got)
	}

	// The clip is a copy; mutating it leaves the source untouched.
	clipped.Set("2024-04", ColNetOperatingIncome, 999)
	if got := st.Get("2024-04", ColNetOperatingIncome); got != 100 {
		t.Errorf("mutating the clipped copy changed the source: got %.2f", got)
	}
}

func TestAdjusted(t *testing.T) {
	if got := Adjusted(ColNetOperatingIncome); got != "Adjusted Net Operating Income" {
		t.Errorf("Adjusted() = %s, expected Adjusted Net Operating Income", got)
	}
}
