package service

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesWords = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teenWords = []string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen"}
	tensWords = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

const wordExpansionLimit = 100000

// AmountToWords converts a rupee amount to English words. Paise are
// truncated; only the integer rupee part is converted. Amounts of one lakh
// and above are not word-expanded, they fall back to an Indian-grouped
// digit string. That cutoff is long-standing observed behavior and is kept
// as is rather than extended with lakh/crore vocabulary.
func (s *invoiceService) AmountToWords(amount decimal.Decimal) string {
	n := amount.IntPart()

	if n <= 0 {
		return "Zero Rupees Only"
	}
	if n >= wordExpansionLimit {
		return formatIndianDigits(n) + " Rupees Only"
	}
	return numberToWords(n) + " Rupees Only"
}

// numberToWords handles 1..99999 recursively by thousands
func numberToWords(n int64) string {
	switch {
	case n < 10:
		return onesWords[n]
	case n < 20:
		return teenWords[n-10]
	case n < 100:
		return strings.TrimSpace(tensWords[n/10] + " " + onesWords[n%10])
	case n < 1000:
		return strings.TrimSpace(onesWords[n/100] + " Hundred " + numberToWords(n%100))
	default:
		return strings.TrimSpace(numberToWords(n/1000) + " Thousand " + numberToWords(n%1000))
	}
}

// formatIndianDigits groups digits the Indian way: the last three digits
// form one group, everything above groups in twos, e.g. 100000 -> 1,00,000.
func formatIndianDigits(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	groups := []string{digits[len(digits)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",")
}
