package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
)

// Bullet characters models use instead of the requested asterisk.
const unicodeBullets = "•●▪◦‣"

//nolint:gochecknoglobals // goldmark.Markdown is safe for concurrent use.
var md = goldmark.New()

// ToHTML renders model output as HTML. Raw HTML in the input is not passed
// through.
func ToHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer

	if err := md.Convert([]byte(NormalizeBullets(src)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	//nolint:gosec // goldmark escapes raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

// NormalizeBullets trims the text and rewrites unicode bullets at line start
// to markdown asterisks.
func NormalizeBullets(src string) string {
	lines := strings.Split(strings.TrimSpace(src), "\n")

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}

		r, size := utf8.DecodeRuneInString(trimmed)
		if strings.ContainsRune(unicodeBullets, r) {
			lines[i] = "* " + strings.TrimSpace(trimmed[size:])
		}
	}

	return strings.Join(lines, "\n")
}

