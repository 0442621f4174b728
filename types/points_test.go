package types

import (
	"encoding/json"
	"testing"
)

func TestPointsConstructors(t *testing.T) {
	tests := []struct {
		name    string
		points  Points
		amount  int64
		display string
	}{
		{"PTS", PTS(4000), 4000, "40.00 pts"},
		{"Whole", Whole(40), 4000, "40.00 pts"},
		{"Fractional", PTS(4050), 4050, "40.50 pts"},
		{"One hundredth", PTS(1), 1, "0.01 pts"},
		{"Negative", PTS(-1050), -1050, "-10.50 pts"},
		{"Zero", ZeroPoints(), 0, "0.00 pts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.points.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.points.Amount, tt.amount)
			}
			if tt.points.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.points.String(), tt.display)
			}
		})
	}
}

func TestParsePoints(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"40", 4000, false},
		{"40.5", 4050, false},
		{"40.50", 4050, false},
		{"-10.25", -1025, false},
		{"+3", 300, false},
		{"0.01", 1, false},
		{".5", 50, false},
		{"  40  ", 4000, false},
		{"", 0, true},
		{"40.123", 0, true},
		{"abc", 0, true},
		{".", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePoints(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePoints(%q) failed: %v", tt.input, err)
			}
			if got.Amount != tt.expected {
				t.Errorf("got %d, want %d", got.Amount, tt.expected)
			}
		})
	}
}

func TestPointsArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Points
		expected Points
	}{
		{"Add", func() Points { return PTS(100).Add(PTS(200)) }, PTS(300)},
		{"Subtract", func() Points { return PTS(500).Subtract(PTS(200)) }, PTS(300)},
		{"Negate", func() Points { return PTS(100).Negate() }, PTS(-100)},
		{"Abs positive", func() Points { return PTS(100).Abs() }, PTS(100)},
		{"Abs negative", func() Points { return PTS(-100).Abs() }, PTS(100)},
		{"Debit then credit", func() Points {
			return Whole(100).Subtract(Whole(40)).Add(Whole(40))
		}, Whole(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestPointsComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Points
		less    bool
		greater bool
		equal   bool
	}{
		{"Equal", PTS(100), PTS(100), false, false, true},
		{"Less", PTS(50), PTS(100), true, false, false},
		{"Greater", PTS(200), PTS(100), false, true, false},
		{"Zero equal", PTS(0), ZeroPoints(), false, false, true},
		{"Negative less", PTS(-100), PTS(100), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestPointsCovers(t *testing.T) {
	tests := []struct {
		name    string
		balance Points
		price   Points
		covers  bool
	}{
		{"Ample", Whole(100), Whole(40), true},
		{"Exact boundary", Whole(40), Whole(40), true},
		{"One hundredth short", PTS(3999), Whole(40), false},
		{"Zero price", ZeroPoints(), ZeroPoints(), true},
		{"Zero balance", ZeroPoints(), PTS(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.balance.Covers(tt.price); got != tt.covers {
				t.Errorf("Covers: got %v, want %v", got, tt.covers)
			}
		})
	}
}

func TestPointsPredicates(t *testing.T) {
	tests := []struct {
		name       string
		points     Points
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", PTS(0), true, false, false},
		{"Positive", PTS(100), false, true, false},
		{"Negative", PTS(-100), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.points.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.points.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.points.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestPointsFormatMajor(t *testing.T) {
	tests := []struct {
		points   Points
		expected string
	}{
		{PTS(4000), "40.00"},
		{PTS(100), "1.00"},
		{PTS(1), "0.01"},
		{PTS(0), "0.00"},
		{PTS(-4000), "-40.00"},
		{PTS(-1), "-0.01"},
		{PTS(9999), "99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.points.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestPointsJSON(t *testing.T) {
	p := PTS(4000)

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	expected := `{"amount":4000,"display":"40.00 pts"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}

	var fromObject Points
	if err := json.Unmarshal(data, &fromObject); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if !fromObject.Equal(p) {
		t.Errorf("round-trip mismatch: got %v, want %v", fromObject, p)
	}

	// Bare integer amount is accepted too.
	var fromInt Points
	if err := json.Unmarshal([]byte("4000"), &fromInt); err != nil {
		t.Fatalf("Unmarshal int error: %v", err)
	}
	if !fromInt.Equal(p) {
		t.Errorf("int form mismatch: got %v, want %v", fromInt, p)
	}
}

func TestSumPoints(t *testing.T) {
	tests := []struct {
		name     string
		values   []Points
		expected Points
	}{
		{"Empty", []Points{}, ZeroPoints()},
		{"Single", []Points{PTS(100)}, PTS(100)},
		{"Multiple", []Points{PTS(100), PTS(200), PTS(300)}, PTS(600)},
		{"Credits and debits", []Points{Whole(100), Whole(-40), Whole(40)}, Whole(100)},
		{"All zero", []Points{PTS(0), PTS(0)}, PTS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SumPoints(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("SumPoints: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func BenchmarkPointsAdd(b *testing.B) {
	p1 := PTS(100)
	p2 := PTS(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p1.Add(p2)
	}
}

func BenchmarkPointsString(b *testing.B) {
	p := PTS(4000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.String()
	}
}
