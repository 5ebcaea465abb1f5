package allocator

import (
	"errors"
	"testing"
)

func TestParseCodeRoundTrip(t *testing.T) {
	code := FormatCode("EHS", "FUR", "TAB", 2024, 3)
	if code != "EHS-FUR-TAB-2024-0003" {
		t.Fatalf("FormatCode: got %q", code)
	}

	p, err := ParseCode(code)
	if err != nil {
		t.Fatalf("ParseCode(%q): %v", code, err)
	}
	if p.Prefix != "EHS" || p.CategoryCode != "FUR" || p.ProductCode != "TAB" {
		t.Errorf("parsed segments: %+v", p)
	}
	if p.Year != 2024 {
		t.Errorf("expected year 2024, got %d", p.Year)
	}
	if p.Sequence != 3 {
		t.Errorf("expected sequence 3, got %d", p.Sequence)
	}
}

func TestParseCodeRejectsMalformed(t *testing.T) {
	bad := []UniqueCode{
		"",
		"EHS-FUR-TAB-2024",          // missing sequence segment
		"EHS-FUR-TAB-2024-0001-X",   // too many segments
		"EHS-FUR-TAB-2024-000X",     // non-numeric sequence
		"EHS-FUR-TAB-24-0001",       // 2-digit year
		"EHS-fur-TAB-2024-0001",     // lowercase category
		"EHS-F-TAB-2024-0001",       // category too short
		"EHS--TAB-2024-0001",        // empty category
		"-FUR-TAB-2024-0001",        // empty prefix
		"EHS-FUR-TAB-2024-0000",     // sequence below 1
		"EHS-FUR-TAB-2024-12345",    // sequence wider than the fixed width
		"EHS-FUR-TAB-2024-001",      // sequence narrower than the fixed width
		"EHS-FURNITURE-TAB-2024-01", // category too long
	}
	for _, code := range bad {
		if _, err := ParseCode(code); !errors.Is(err, ErrMalformedCode) {
			t.Errorf("ParseCode(%q): expected ErrMalformedCode, got %v", code, err)
		}
	}
}

func TestValidateShortCodeBoundaries(t *testing.T) {
	valid := []struct {
		code string
		kind ShortCodeKind
	}{
		{"AB", CategoryCode},
		{"ABCDE", CategoryCode},
		{"A", ProductCode},
		{"TAB3", ProductCode},
		{"ABCDEF1234", ProductCode},
	}
	for _, tc := range valid {
		if err := ValidateShortCode(tc.code, tc.kind); err != nil {
			t.Errorf("ValidateShortCode(%q, %d): %v", tc.code, tc.kind, err)
		}
	}

	invalid := []struct {
		code string
		kind ShortCodeKind
	}{
		{"A", CategoryCode},       // too short
		{"ABCDEF", CategoryCode},  // too long
		{"ab", CategoryCode},      // lowercase rejected
		{"AB1", CategoryCode},     // digits not allowed in category codes
		{"", ProductCode},         // empty
		{"ABCDEFGHIJK", ProductCode},
		{"tab", ProductCode},
		{"TA-B", ProductCode},
	}
	for _, tc := range invalid {
		if err := ValidateShortCode(tc.code, tc.kind); !errors.Is(err, ErrInvalidShortCode) {
			t.Errorf("ValidateShortCode(%q, %d): expected ErrInvalidShortCode, got %v", tc.code, tc.kind, err)
		}
	}
}
