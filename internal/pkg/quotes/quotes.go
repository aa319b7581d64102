package quotes

import (
	"strconv"
	"strings"
)

const (
	quoteByte = '"'
	quoteStr  = string(quoteByte)

	blockQuote = `"""`
)

func WrapString(str string) string {
	return quoteStr + str + quoteStr
}

// QuoteString returns str as a GraphQL string literal.
func QuoteString(str string) string {
	return WrapString(EscapeString(str))
}

// EscapeString escapes str for use inside a GraphQL string literal.
func EscapeString(str string) string {
	var sb strings.Builder
	sb.Grow(len(str))
	for _, r := range str {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				if r < 0x10 {
					sb.WriteByte('0')
				}
				sb.WriteString(strconv.FormatInt(int64(r), 16))
				continue
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// BlockString returns str as a GraphQL block string, each line prefixed with indent.
func BlockString(str, indent string) string {
	str = strings.ReplaceAll(str, blockQuote, `\`+blockQuote)
	lines := strings.Split(str, "\n")

	var sb strings.Builder
	sb.WriteString(indent + blockQuote + "\n")
	for _, line := range lines {
		if line != "" {
			sb.WriteString(indent)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(indent + blockQuote)
	return sb.String()
}
