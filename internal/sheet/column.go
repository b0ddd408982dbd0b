package sheet

import (
	"errors"
	"strings"
)

// Column conversion errors.
var (
	ErrInvalidColumn = errors.New("column must contain only letters A-Z")
	ErrColumnRange   = errors.New("column number must be a positive integer")
)

// ColumnToNumber converts spreadsheet column letters ("A", "aa", "AAA") to a
// 1-based column number using bijective base-26: "AAA" is 703.
func ColumnToNumber(col string) (int, error) {
	col = strings.ToUpper(strings.TrimSpace(col))
	if col == "" {
		return 0, ErrInvalidColumn
	}
	n := 0
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			return 0, ErrInvalidColumn
		}
		n = n*26 + int(r-'A'+1)
	}
	return n, nil
}

// NumberToColumn converts a 1-based column number to its letters: 27 is "AA".
func NumberToColumn(n int) (string, error) {
	if n < 1 {
		return "", ErrColumnRange
	}
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

// mustColumn is NumberToColumn for numbers already known to be positive.
func mustColumn(n int) string {
	s, err := NumberToColumn(n)
	if err != nil {
		panic(err)
	}
	return s
}
