package anchor

import (
	"net/url"
	"strings"
)

// ParsePairs splits input into a flat map. Tokens are separated by pairDelim
// and split once on kvDelim: a bare token becomes a true flag, a token with
// one kvDelim becomes a string value. Tokens with more than one kvDelim are
// dropped. Keys and values are percent-decoded.
func ParsePairs(input, pairDelim, kvDelim string) map[string]Value {
	out := map[string]Value{}
	for _, pair := range splitPairs(input, pairDelim, kvDelim) {
		key := decodeComponent(pair.key)
		if pair.flag {
			out[key] = Flag()
			continue
		}
		out[key] = String(decodeComponent(pair.value))
	}
	return out
}

type rawPair struct {
	key   string
	value string
	flag  bool
}

// splitPairs tokenizes without decoding so callers can split values on
// further delimiters before escapes are resolved.
func splitPairs(input, pairDelim, kvDelim string) []rawPair {
	if input == "" {
		return nil
	}
	tokens := strings.Split(input, pairDelim)
	pairs := make([]rawPair, 0, len(tokens))
	for _, token := range tokens {
		parts := strings.Split(token, kvDelim)
		switch len(parts) {
		case 1:
			pairs = append(pairs, rawPair{key: parts[0], flag: true})
		case 2:
			pairs = append(pairs, rawPair{key: parts[0], value: parts[1]})
		}
	}
	return pairs
}

// decodeComponent reverses encodeComponent. Malformed escapes leave the text
// untouched.
func decodeComponent(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

const upperhex = "0123456789ABCDEF"

// encodeComponent matches ECMAScript encodeURIComponent: everything except
// A-Z a-z 0-9 - _ . ! ~ * ' ( ) is percent-encoded as UTF-8 bytes.
func encodeComponent(s string) string {
	escapes := 0
	for i := 0; i < len(s); i++ {
		if !isUnreserved(s[i]) {
			escapes++
		}
	}
	if escapes == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*escapes)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
