// Package allocator owns the asset-tag format and the sequencing rules
// for inventory unique codes.
//
// A code looks like EHS-FUR-TAB-2024-0003: org prefix, category short
// code, product short code, full purchase year, zero-padded sequence.
// All items sharing one (category code, product code, year) bucket share
// one sequence counter, derived from the persisted count of the bucket.
package allocator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UniqueCode is a fully formatted asset tag. It is a distinct type so a
// bare category or product short code cannot be passed where a full tag
// is expected.
type UniqueCode string

func (c UniqueCode) String() string { return string(c) }

const (
	// Delimiter between code segments. Must not appear inside the org
	// prefix or any short code.
	Delimiter = "-"

	// SequenceWidth is the fixed zero-padded width of the sequence
	// segment. MaxSequence units fit in one bucket; allocation past it
	// fails with ErrSequenceExhausted instead of widening the field.
	SequenceWidth = 4
	MaxSequence   = 9999

	// DefaultPrefix is the org tag used when none is configured.
	DefaultPrefix = "EHS"
)

var (
	ErrMalformedCode    = errors.New("malformed unique code")
	ErrInvalidShortCode = errors.New("invalid short code")
	ErrInvalidYear      = errors.New("year of purchase must be a 4-digit year")

	categoryCodeRe = regexp.MustCompile(`^[A-Z]{2,5}$`)
	productCodeRe  = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)
	yearRe         = regexp.MustCompile(`^\d{4}$`)
	sequenceRe     = regexp.MustCompile(`^\d{4}$`)
)

// ShortCodeKind selects the validation rule for ValidateShortCode.
type ShortCodeKind int

const (
	CategoryCode ShortCodeKind = iota
	ProductCode
)

// ValidateShortCode checks a catalog short code against the format for
// its kind: 2-5 uppercase letters for categories, 1-10 uppercase
// letters/digits for products. Lowercase input is rejected here;
// callers that want to be lenient normalize with strings.ToUpper first.
func ValidateShortCode(code string, kind ShortCodeKind) error {
	switch kind {
	case CategoryCode:
		if !categoryCodeRe.MatchString(code) {
			return fmt.Errorf("%w: category code %q must match %s", ErrInvalidShortCode, code, categoryCodeRe)
		}
	case ProductCode:
		if !productCodeRe.MatchString(code) {
			return fmt.Errorf("%w: product code %q must match %s", ErrInvalidShortCode, code, productCodeRe)
		}
	default:
		return fmt.Errorf("%w: unknown short code kind %d", ErrInvalidShortCode, kind)
	}
	return nil
}

// Parsed is the decomposition of a UniqueCode.
type Parsed struct {
	Prefix       string
	CategoryCode string
	ProductCode  string
	Year         int
	Sequence     int
}

// ParseCode splits a code into its segments and validates each one.
// It never mutates state; the write path goes through Allocator.
func ParseCode(code UniqueCode) (Parsed, error) {
	parts := strings.Split(string(code), Delimiter)
	if len(parts) != 5 {
		return Parsed{}, fmt.Errorf("%w: %q has %d segments, want 5", ErrMalformedCode, code, len(parts))
	}
	p := Parsed{Prefix: parts[0], CategoryCode: parts[1], ProductCode: parts[2]}

	if p.Prefix == "" {
		return Parsed{}, fmt.Errorf("%w: %q has an empty prefix", ErrMalformedCode, code)
	}
	if err := ValidateShortCode(p.CategoryCode, CategoryCode); err != nil {
		return Parsed{}, fmt.Errorf("%w: %q: bad category segment", ErrMalformedCode, code)
	}
	if err := ValidateShortCode(p.ProductCode, ProductCode); err != nil {
		return Parsed{}, fmt.Errorf("%w: %q: bad product segment", ErrMalformedCode, code)
	}
	if !yearRe.MatchString(parts[3]) {
		return Parsed{}, fmt.Errorf("%w: %q: year segment %q is not a 4-digit year", ErrMalformedCode, code, parts[3])
	}
	if !sequenceRe.MatchString(parts[4]) {
		return Parsed{}, fmt.Errorf("%w: %q: sequence segment %q is not %d digits", ErrMalformedCode, code, parts[4], SequenceWidth)
	}
	p.Year, _ = strconv.Atoi(parts[3])
	seq, err := strconv.Atoi(parts[4])
	if err != nil || seq < 1 {
		return Parsed{}, fmt.Errorf("%w: %q: sequence segment %q out of range", ErrMalformedCode, code, parts[4])
	}
	p.Sequence = seq
	return p, nil
}

// FormatCode builds the canonical code for a bucket position. It assumes
// already-validated inputs; Allocator validates before calling it.
func FormatCode(prefix, categoryCode, productCode string, year, sequence int) UniqueCode {
	return UniqueCode(fmt.Sprintf("%s%s%s%s%s%s%04d%s%0*d",
		prefix, Delimiter, categoryCode, Delimiter, productCode, Delimiter, year, Delimiter, SequenceWidth, sequence))
}
