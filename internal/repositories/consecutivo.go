package repositories

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatConsecutivo renders a visit code as YYYY-NNN
func FormatConsecutivo(year, n int) string {
	return fmt.Sprintf("%d-%03d", year, n)
}

// ConsecutivoSuffix returns the numeric suffix of code if it belongs to year
func ConsecutivoSuffix(code string, year int) (int, bool) {
	prefix := strconv.Itoa(year) + "-"
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(code[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextConsecutivo returns max(suffix for year)+1 over the existing codes.
// Codes from other years or with a malformed suffix are ignored.
func NextConsecutivo(existing []string, year int) string {
	max := 0
	for _, code := range existing {
		if n, ok := ConsecutivoSuffix(code, year); ok && n > max {
			max = n
		}
	}
	return FormatConsecutivo(year, max+1)
}
