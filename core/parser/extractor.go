package parser

import (
	"iter"
	"regexp"
	"strings"

	"github.com/tristendillon/geninterface/core/models"
)

// A doc comment body may not contain "*/". It must be followed, modulo
// whitespace, by an exported const binding with an initializer or a type
// annotation.
var exportedConstRe = regexp.MustCompile(`/\*\*((?:[^*]|\*+[^*/])*?)\*+/\s*export\s+const\s+(\w+)\s*[=:]`)

// ExtractFunctions yields every documented exported const in src in order of
// appearance. Each range over the returned sequence rescans from the start.
func ExtractFunctions(src string) iter.Seq[models.ExtractedFunction] {
	return func(yield func(models.ExtractedFunction) bool) {
		pos := 0
		for pos < len(src) {
			loc := exportedConstRe.FindStringSubmatchIndex(src[pos:])
			if loc == nil {
				return
			}

			fn := models.ExtractedFunction{
				Comment: NormalizeComment(stripBlockTags(src[pos+loc[2] : pos+loc[3]])),
				Name:    src[pos+loc[4] : pos+loc[5]],
				Start:   pos + loc[0],
				End:     pos + loc[1],
			}
			if !yield(fn) {
				return
			}
			pos += loc[1]
		}
	}
}

// jsdocGutter is the leading "*" of a continuation line in a multi-line
// block comment.
var jsdocGutter = regexp.MustCompile(`^\s*\*\s?`)

// NormalizeComment turns the inner text of a block comment into a single
// line. The first line is only trimmed; continuation lines lose their "*"
// gutter. Non-empty lines are joined by spaces.
func NormalizeComment(raw string) string {
	var parts []string
	for i, line := range strings.Split(raw, "\n") {
		if i > 0 {
			line = jsdocGutter.ReplaceAllString(line, "")
		}
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// stripBlockTags drops everything from the first JSDoc block tag line
// (" * @param ...") onwards.
func stripBlockTags(raw string) string {
	lines := strings.Split(raw, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(jsdocGutter.ReplaceAllString(lines[i], "")), "@") {
			return strings.Join(lines[:i], "\n")
		}
	}
	return raw
}
