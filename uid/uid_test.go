package uid

import (
	"strings"
	"testing"
)

func TestParseAndString(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"all zero", "00000000-0000-0000-0000-000000000000"},
		{"mixed case", "CC262192-d151-941F-d542-d4c622b50b09"},
		{"max", "ffffffff-ffff-ffff-ffff-ffffffffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			want, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("re-parse error: %v", err)
			}
			if got != want {
				t.Fatalf("Parse not deterministic: %+v vs %+v", got, want)
			}
			if s := got.String(); s != strings.ToLower(tt.in) {
				t.Fatalf("String() = %q, want %q", s, strings.ToLower(tt.in))
			}
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"not-a-uuid",
		"cc262192-d151-941f-d542-d4c622b50b0", // 35 chars
		"gg262192-d151-941f-d542-d4c622b50b09", // invalid hex digit
		"cc262192d151941fd542d4c622b50b09---x", // wrong dash positions
	}
	for _, in := range tests {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	const s = "cc262192-d151-941f-d542-d4c622b50b09"
	u, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := u.String(); got != s {
		t.Fatalf("String() = %q, want %q", got, s)
	}
}

func TestOrdering(t *testing.T) {
	a := UID{Hi: 1, Lo: 5}
	b := UID{Hi: 1, Lo: 6}
	c := UID{Hi: 2, Lo: 0}

	if !a.Less(b) {
		t.Error("a should be less than b")
	}
	if !b.Less(c) {
		t.Error("b should be less than c")
	}
	if a.Compare(a) != 0 {
		t.Error("a.Compare(a) should be 0")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 {
		t.Error("Compare should be antisymmetric")
	}
}

func TestHashDeterministic(t *testing.T) {
	names := []string{"", "velk.IObject", "velk.IProperty", "a"}
	for _, n := range names {
		h1 := Hash(n)
		h2 := Hash(n)
		if h1 != h2 {
			t.Errorf("Hash(%q) not deterministic: %v vs %v", n, h1, h2)
		}
	}
}

func TestHashDistinctForDistinctNames(t *testing.T) {
	a := Hash("velk.IObject")
	b := Hash("velk.IProperty")
	if a == b {
		t.Error("expected distinct hashes for distinct names")
	}
}

func TestHashEmptyStringIsOffsetBasis(t *testing.T) {
	if got := Hash(""); got != offsetBasis {
		t.Errorf("Hash(\"\") = %v, want offset basis %v", got, offsetBasis)
	}
}

func TestMustParsePanicsOnBadInput(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for malformed UID")
		}
	}()
	MustParse("not-a-uuid")
}
