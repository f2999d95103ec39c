// Package procnum finds Brazilian judicial case numbers (NNNNNNN-NN.AAAA.N.NN.NNNN)
// in free text. Detection is purely syntactic; check digits are not verified.
package procnum

import "regexp"

var pattern = regexp.MustCompile(`\d{7}-\d{2}\.\d{4}\.\d\.\d{2}\.\d{4}`)

// Detect returns the first process number in document order.
func Detect(text string) (string, bool) {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// FindAll returns every process number in document order, duplicates included.
func FindAll(text string) []string {
	return pattern.FindAllString(text, -1)
}
