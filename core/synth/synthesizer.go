package synth

import (
	"bytes"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/logger"
	"github.com/tristendillon/geninterface/core/models"
	"github.com/tristendillon/geninterface/core/parser"
	"github.com/tristendillon/geninterface/core/shared"
	"github.com/tristendillon/geninterface/core/template_engine"
)

// emptyInner is the body of a freshly synthesized interface: a blank line
// for a human to fill in.
const emptyInner = "\n\n"

type declarationData struct {
	Comment  string
	Name     string
	Heritage string
	Inner    string
}

// Synthesizer renders request/response interface pairs for extracted
// functions.
type Synthesizer struct {
	tmpl           *template.Template
	requestSuffix  string
	responseSuffix string
}

func NewSynthesizer(cfg config.Generate) (*Synthesizer, error) {
	tmpl, err := template_engine.NewTemplateEngine().Parse(template_engine.TEMPLATES.DECLARATION)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load declaration template")
	}
	return &Synthesizer{
		tmpl:           tmpl,
		requestSuffix:  cfg.RequestSuffix,
		responseSuffix: cfg.ResponseSuffix,
	}, nil
}

func RequestName(fn string) string {
	return shared.Capitalize(fn) + "Request"
}

func ResponseName(fn string) string {
	return shared.Capitalize(fn) + "Response"
}

// RenderDeclaration renders one interface block. inner is spliced between
// the braces verbatim.
func (s *Synthesizer) RenderDeclaration(comment, name, heritage, inner string) (string, error) {
	var buf bytes.Buffer
	err := s.tmpl.Execute(&buf, declarationData{
		Comment:  comment,
		Name:     name,
		Heritage: heritage,
		Inner:    inner,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to render declaration %s", name)
	}
	return buf.String(), nil
}

// Synthesize returns the request and response declarations for fn, in that
// order, both with empty bodies.
func (s *Synthesizer) Synthesize(fn models.ExtractedFunction) ([2]models.NamedDeclaration, error) {
	var pair [2]models.NamedDeclaration

	reqName := RequestName(fn.Name)
	req, err := s.RenderDeclaration(fn.Comment+s.requestSuffix, reqName, "", emptyInner)
	if err != nil {
		return pair, err
	}

	respName := ResponseName(fn.Name)
	resp, err := s.RenderDeclaration(fn.Comment+s.responseSuffix, respName, "", emptyInner)
	if err != nil {
		return pair, err
	}

	pair[0] = models.NamedDeclaration{Name: reqName, Body: req}
	pair[1] = models.NamedDeclaration{Name: respName, Body: resp}
	return pair, nil
}

// Fresh synthesizes the record set for every documented exported function
// in src. It also returns the number of functions found.
func (s *Synthesizer) Fresh(src string) (*models.RecordSet, int, error) {
	rs := models.NewRecordSet()
	count := 0

	for fn := range parser.ExtractFunctions(src) {
		count++
		pair, err := s.Synthesize(fn)
		if err != nil {
			return nil, count, err
		}
		if rs.Put(pair[0]) {
			logger.Warn("Function %s is declared more than once, keeping the last declaration", fn.Name)
		}
		rs.Put(pair[1])
	}

	return rs, count, nil
}

// Existing parses a previously generated file through the same template used
// for synthesis.
func (s *Synthesizer) Existing(src string) (*models.RecordSet, error) {
	return parser.ParseDeclarations(src, s)
}
