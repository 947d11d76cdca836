package text

import "testing"

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if r.String() != "[2; 5)" {
		t.Errorf("String() = %q", r.String())
	}
	if !r.Contains(2) || r.Contains(5) {
		t.Error("Contains should be half-open")
	}
	if !r.ContainsInclusive(5) {
		t.Error("ContainsInclusive(5) should be true")
	}
	if !r.ContainsRange(NewRange(3, 5)) || r.ContainsRange(NewRange(1, 3)) {
		t.Error("ContainsRange mismatch")
	}
	if !r.Intersects(NewRange(4, 9)) || r.Intersects(NewRange(5, 9)) {
		t.Error("Intersects mismatch")
	}
}

func TestNewRangePanicsOnInversion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewRange(3, 1)
}

func TestLineIndex(t *testing.T) {
	idx := NewLineIndex("fn main() {\n    1\n}\n")

	tests := []struct {
		offset int
		want   LineCol
	}{
		{0, LineCol{0, 0}},
		{11, LineCol{0, 11}},
		{12, LineCol{1, 0}},
		{16, LineCol{1, 4}},
		{18, LineCol{2, 0}},
		{20, LineCol{3, 0}},
		{100, LineCol{3, 0}},
	}
	for _, tt := range tests {
		got := idx.LineCol(tt.offset)
		if got != tt.want {
			t.Errorf("LineCol(%d) = %v, want %v", tt.offset, got, tt.want)
		}
		if tt.offset <= 20 && idx.Offset(got) != tt.offset {
			t.Errorf("Offset(%v) = %d, want %d", got, idx.Offset(got), tt.offset)
		}
	}

	if got := idx.Offset(LineCol{Line: 1, Col: 99}); got != 17 {
		t.Errorf("clamped Offset = %d, want 17", got)
	}
}

func TestLineIndexUTF16(t *testing.T) {
	idx := NewLineIndex("let s = \"é😀\";")
	byteCol := len("let s = \"é😀")
	got := idx.UTF16Col(LineCol{Line: 0, Col: byteCol})
	if got != 12 {
		t.Errorf("UTF16Col = %d, want 12", got)
	}
	back := idx.FromUTF16Col(0, 12)
	if back.Col != byteCol {
		t.Errorf("FromUTF16Col = %d, want %d", back.Col, byteCol)
	}
}
