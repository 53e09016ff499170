package table

import "testing"

func TestFormatPadsToWidestCell(t *testing.T) {
	got := Format([][]string{
		{"Flatpak", "3"},
		{"openSUSE", "12"},
	}, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"Flatpak    3",
		"openSUSE  12",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatEmpty(t *testing.T) {
	if got := Format(nil, nil); got != nil {
		t.Fatalf("expected nil, got %#v", got)
	}
}

func TestFixedRowTruncatesAndPads(t *testing.T) {
	got := FixedRow([]string{"abcdef", "x"}, []int{4, 3})
	if got != "abcd x  " {
		t.Fatalf("expected %q, got %q", "abcd x  ", got)
	}
}

func TestFixedRowCountsRunes(t *testing.T) {
	got := FixedRow([]string{"äöüß", "é"}, []int{3, 2})
	if got != "äöü é " {
		t.Fatalf("expected %q, got %q", "äöü é ", got)
	}
}

func TestFixedRowMissingCellsArePadded(t *testing.T) {
	got := FixedRow([]string{"a"}, []int{2, 2})
	if got != "a    " {
		t.Fatalf("expected %q, got %q", "a    ", got)
	}
}

func TestSeparatorMatchesWidth(t *testing.T) {
	if got := Separator("ab cd"); got != "-----" {
		t.Fatalf("expected 5 dashes, got %q", got)
	}
}

func TestClip(t *testing.T) {
	if got := Clip("hello", 0); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Clip("hi", 5); got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
}
