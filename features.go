/*
File: features.go
Version: 1.3.0
Description: Lexical and linguistic feature extraction. Works on the URL
             string alone, no network access, deterministic for a given input.
*/

package main

import (
	"math"
	"strings"
)

// basicFeatureOrder fixes the position of the lexical features at the front of
// the assembled vector. Order is load-bearing for the classifier, never
// reorder entries.
var basicFeatureOrder = []string{
	"url_length",
	"domain_length",
	"path_length",
	"query_length",
	"fragment_length",
	"subdomain_count",
	"path_depth",
	"tld_score",
	"domain_entropy",
	"https_present",
	"special_char_count",
	"digit_percentage",
	"letter_percentage",
	"numeric_path",
	"ip_url",
	"keyword_count",
	"hyphen_count",
	"domain_hyphen_count",
	"dot_count",
	"uppercase_count",
	"digit_ratio_domain",
	"underscore_in_domain",
	"javascript_scheme",
	"data_scheme",
	"long_number_sequence",
	"long_letter_sequence",
	"path_entropy",
	"query_entropy",
}

// specialChars counted by the special_char_count feature and the excessive
// special character signature. The wide set including URL separators is
// intentional, separator density itself is the signal.
const specialChars = "!@#$%^&*()_+-={}[]|\\:;\"'<>,.?/"

// dotCountCap bounds the dot_count feature so extreme subdomain nesting does
// not dominate the vector.
const dotCountCap = 5

// commonBigrams are high-frequency English letter pairs. Real words hit them
// often, random DGA-style labels rarely do.
var commonBigrams = map[string]struct{}{
	"th": {}, "he": {}, "in": {}, "er": {}, "an": {}, "re": {}, "on": {},
	"at": {}, "en": {}, "nd": {}, "ti": {}, "es": {}, "or": {},
}

// calculateEntropy computes byte-frequency Shannon entropy in bits per byte.
// Empty input scores 0.
func calculateEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	var counts [256]int
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
	}

	entropy := 0.0
	length := float64(len(s))
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// tldScore looks up the lexical risk weight for a TLD.
func tldScore(tld string) float64 {
	if s, ok := riskyTLDScores[tld]; ok {
		return s
	}
	return defaultTLDScore
}

// countKeywords counts feature keyword occurrences in the lowercased URL.
// Each keyword counts once regardless of repetitions.
func countKeywords(url string) int {
	lower := strings.ToLower(url)
	count := 0
	for _, kw := range featureKeywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// longestRun returns the longest run of bytes in s satisfying match.
func longestRun(s string, match func(byte) bool) int {
	longest := 0
	run := 0
	for i := 0; i < len(s); i++ {
		if match(s[i]) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

// pathDepth counts non-empty path segments.
func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// hasNumericPathSegment reports whether any path segment is all digits.
func hasNumericPathSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		allDigits := true
		for i := 0; i < len(seg); i++ {
			if seg[i] < '0' || seg[i] > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			return true
		}
	}
	return false
}

// ExtractLexicalFeatures produces the basic feature group for a parsed URL.
// Keys match basicFeatureOrder exactly.
func ExtractLexicalFeatures(p ParsedURL) map[string]float64 {
	features := make(map[string]float64, len(basicFeatureOrder))

	url := p.Raw
	features["url_length"] = float64(len(url))
	features["domain_length"] = float64(len(p.Host))
	features["path_length"] = float64(len(p.Path))
	features["query_length"] = float64(len(p.Query))
	features["fragment_length"] = float64(len(p.Fragment))
	features["subdomain_count"] = float64(SubdomainCount(p.Host))
	features["path_depth"] = float64(pathDepth(p.Path))
	features["tld_score"] = tldScore(ExtractTLD(p.Host))
	features["domain_entropy"] = calculateEntropy(p.Host)

	if p.Scheme == "https" {
		features["https_present"] = 1
	} else {
		features["https_present"] = 0
	}

	special := 0
	digits := 0
	letters := 0
	for i := 0; i < len(url); i++ {
		c := url[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			letters++
		}
		if strings.IndexByte(specialChars, c) >= 0 {
			special++
		}
	}
	features["special_char_count"] = float64(special)
	total := float64(len(url))
	features["digit_percentage"] = float64(digits) / total * 100
	features["letter_percentage"] = float64(letters) / total * 100

	if hasNumericPathSegment(p.Path) {
		features["numeric_path"] = 1
	} else {
		features["numeric_path"] = 0
	}
	if p.IsIP {
		features["ip_url"] = 1
	} else {
		features["ip_url"] = 0
	}
	features["keyword_count"] = float64(countKeywords(url))

	lower := strings.ToLower(url)
	features["hyphen_count"] = float64(strings.Count(url, "-"))
	features["domain_hyphen_count"] = float64(strings.Count(p.Host, "-"))
	features["dot_count"] = float64(min(strings.Count(url, "."), dotCountCap))

	uppercase := 0
	domainDigits := 0
	for i := 0; i < len(p.Host); i++ {
		c := p.Host[i]
		if c >= 'A' && c <= 'Z' {
			uppercase++
		}
		if c >= '0' && c <= '9' {
			domainDigits++
		}
	}
	features["uppercase_count"] = float64(uppercase)
	if len(p.Host) > 0 {
		features["digit_ratio_domain"] = math.Round(float64(domainDigits)/float64(len(p.Host))*100) / 100
	} else {
		features["digit_ratio_domain"] = 0
	}

	if strings.Contains(p.Host, "_") {
		features["underscore_in_domain"] = 1
	} else {
		features["underscore_in_domain"] = 0
	}
	if strings.Contains(lower, "javascript:") {
		features["javascript_scheme"] = 1
	} else {
		features["javascript_scheme"] = 0
	}
	if strings.Contains(lower, "data:") {
		features["data_scheme"] = 1
	} else {
		features["data_scheme"] = 0
	}

	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	isLetter := func(c byte) bool {
		return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	}
	if longestRun(p.Host, isDigit) >= 4 {
		features["long_number_sequence"] = 1
	} else {
		features["long_number_sequence"] = 0
	}
	if longestRun(p.Host, isLetter) >= 15 {
		features["long_letter_sequence"] = 1
	} else {
		features["long_letter_sequence"] = 0
	}

	features["path_entropy"] = calculateEntropy(p.Path)
	features["query_entropy"] = calculateEntropy(p.Query)

	return features
}

// ExtractNLPFeatures derives linguistic signals from the domain with its TLD
// stripped, so letter statistics are not skewed by the suffix.
func ExtractNLPFeatures(host string) map[string]float64 {
	name := strings.ToLower(DomainWithoutTLD(StripWWW(host)))
	features := make(map[string]float64, 6)

	// Normalized against ~4.7 bits, the practical ceiling for hostnames.
	features["nlp_character_distribution"] = calculateEntropy(name) / 4.7

	vowels := 0
	consonants := 0
	hasDigit := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'a' && c <= 'z':
			if strings.IndexByte("aeiou", c) >= 0 {
				vowels++
			} else {
				consonants++
			}
		}
	}
	if consonants > 0 {
		features["nlp_vowel_consonant_ratio"] = float64(vowels) / float64(consonants)
	} else {
		features["nlp_vowel_consonant_ratio"] = 0
	}

	if hasDigit {
		features["nlp_contains_digits"] = 1
	} else {
		features["nlp_contains_digits"] = 0
	}

	features["nlp_contains_repeated_chars"] = 0
	for i := 0; i+2 < len(name); i++ {
		if name[i] == name[i+1] && name[i] == name[i+2] {
			features["nlp_contains_repeated_chars"] = 1
			break
		}
	}

	features["nlp_ngram_score"] = bigramScore(name)
	features["nlp_word_length_avg"] = averageWordLength(name)

	return features
}

// bigramScore is the density of common English bigrams over the name's
// adjacent character pairs. 0 for names shorter than two characters.
func bigramScore(name string) float64 {
	if len(name) < 2 {
		return 0
	}
	hits := 0
	for i := 0; i+1 < len(name); i++ {
		if _, ok := commonBigrams[name[i:i+2]]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(name)-1)
}

// averageWordLength splits the name on separators and digits and averages the
// remaining alphabetic runs.
func averageWordLength(name string) float64 {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r < 'a' || r > 'z'
	})
	if len(words) == 0 {
		return 0
	}
	sum := 0
	for _, w := range words {
		sum += len(w)
	}
	return float64(sum) / float64(len(words))
}
