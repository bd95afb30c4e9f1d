package parser

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/models"
)

// declarationHeaderRe stops after the interface name. The optional extends
// clause and the opening brace are found by scanHeritage.
var declarationHeaderRe = regexp.MustCompile(`/\*\*((?:[^*]|\*+[^*/])*?)\*+/\s*export\s+interface\s+(\w+)`)

// DeclarationMatch is one terminated interface block found in a generated
// file. Inner is the raw text between the braces; End is just past the
// closing brace.
type DeclarationMatch struct {
	Comment  string
	Name     string
	Heritage string
	Inner    string
	Start    int
	End      int
}

// DeclarationRenderer renders the canonical text of an interface block.
type DeclarationRenderer interface {
	RenderDeclaration(comment, name, heritage, inner string) (string, error)
}

// FindClosingBrace scans from start, just past an already consumed "{", and
// returns the offset just past the matching "}" or -1 if the block never
// closes.
func FindClosingBrace(src string, start int) int {
	depth := 1
	for i := start; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// scanHeritage reads what follows an interface name: optional whitespace, an
// optional extends clause, then the body's "{". Braces inside type arguments
// (extends Base<{ id: string }>) belong to the clause. It returns the clause
// text and the offset just past the body's opening brace; ok is false when
// no body opener follows.
func scanHeritage(src string, pos int) (heritage string, open int, ok bool) {
	i := pos
	for i < len(src) && isSpace(src[i]) {
		i++
	}
	if i < len(src) && src[i] == '{' {
		return "", i + 1, true
	}
	// the name must end here, "interface Foobar" is not "Foo" + "bar"
	if i == pos || !strings.HasPrefix(src[i:], "extends") || i+len("extends") >= len(src) || !isSpace(src[i+len("extends")]) {
		return "", 0, false
	}

	start := i
	angle, brace := 0, 0
	for ; i < len(src); i++ {
		switch src[i] {
		case '<':
			angle++
		case '>':
			// "=>" in a function type argument
			if angle > 0 && src[i-1] != '=' {
				angle--
			}
		case '{':
			if angle == 0 && brace == 0 {
				return src[start:i], i + 1, true
			}
			brace++
		case '}':
			if brace == 0 {
				return "", 0, false
			}
			brace--
		case ';':
			if angle == 0 && brace == 0 {
				return "", 0, false
			}
		}
	}
	return "", 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ScanDeclarations finds every documented exported interface in src.
// Unterminated blocks are skipped and scanning resumes just past their
// opening brace.
func ScanDeclarations(src string) []DeclarationMatch {
	var matches []DeclarationMatch

	pos := 0
	for pos < len(src) {
		loc := declarationHeaderRe.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}

		start := pos + loc[0]
		name := src[pos+loc[4] : pos+loc[5]]

		clause, open, ok := scanHeritage(src, pos+loc[1])
		if !ok {
			logger.Debug("Dropping declaration %s at offset %d: no body follows its header", name, start)
			pos += loc[1]
			continue
		}

		end := FindClosingBrace(src, open)
		if end == -1 {
			logger.Debug("Dropping unterminated declaration %s at offset %d", name, start)
			pos = open
			continue
		}

		heritage := ""
		if fields := strings.Fields(clause); len(fields) > 0 {
			heritage = " " + strings.Join(fields, " ")
		}

		matches = append(matches, DeclarationMatch{
			Comment:  NormalizeComment(src[pos+loc[2] : pos+loc[3]]),
			Name:     name,
			Heritage: heritage,
			Inner:    src[open : end-1],
			Start:    start,
			End:      end,
		})
		pos = end
	}

	return matches
}

// ParseDeclarations parses a previously generated file into a record set.
// Comments are re-rendered through r; inner bodies are kept verbatim.
func ParseDeclarations(src string, r DeclarationRenderer) (*models.RecordSet, error) {
	rs := models.NewRecordSet()

	for _, m := range ScanDeclarations(src) {
		body, err := r.RenderDeclaration(m.Comment, m.Name, m.Heritage, m.Inner)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render declaration %s", m.Name)
		}
		if rs.Put(models.NamedDeclaration{Name: m.Name, Body: body}) {
			logger.Debug("Duplicate declaration %s, keeping the last one", m.Name)
		}
	}

	return rs, nil
}
