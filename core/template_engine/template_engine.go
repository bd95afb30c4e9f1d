package template_engine

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/tristendillon/geninterface/core/logger"
)

type TemplateRef struct {
	Path  string
	IsDir bool
}

func (tr TemplateRef) IsDirectory() bool {
	return tr.IsDir
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"quote":    strconv.Quote,
		"quoteAll": quoteAll,
		"join":     strings.Join,
	}
}

func quoteAll(values []string) []string {
	return lo.Map(values, func(v string, _ int) string {
		return strconv.Quote(v)
	})
}

func NewTemplateEngine() *TemplateEngine {
	funcMap := template.FuncMap{}

	for name, fn := range getDefaultFuncMap() {
		funcMap[name] = fn
	}

	return &TemplateEngine{
		funcMap: funcMap,
	}
}

// Parse loads a file template from the embedded template tree.
func (te *TemplateEngine) Parse(templateRef TemplateRef) (*template.Template, error) {
	if templateRef.IsDirectory() {
		return nil, errors.Newf("cannot parse directory reference: %s", templateRef.Path)
	}
	if err := te.ValidateTemplate(templateRef); err != nil {
		return nil, err
	}

	templatePath := path.Join("templates", templateRef.Path)
	content, err := TemplateFS.ReadFile(templatePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read template file %s", templatePath)
	}

	tmpl, err := template.New(path.Base(templateRef.Path)).Funcs(te.funcMap).Parse(string(content))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse template %s", templateRef.Path)
	}
	return tmpl, nil
}

func (te *TemplateEngine) Render(templateRef TemplateRef, data interface{}) (string, error) {
	tmpl, err := te.Parse(templateRef)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute template %s", templateRef.Path)
	}
	return buf.String(), nil
}

// GenerateFile renders templateRef into outputPath on fsys, creating parent
// directories as needed.
func (te *TemplateEngine) GenerateFile(fsys afero.Fs, templateRef TemplateRef, outputPath string, data interface{}) error {
	content, err := te.Render(templateRef, data)
	if err != nil {
		return err
	}

	if err := fsys.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return errors.Wrap(err, "failed to create output directory")
	}

	if err := afero.WriteFile(fsys, outputPath, []byte(content), 0644); err != nil {
		return errors.Wrapf(err, "failed to create output file %s", outputPath)
	}

	logger.Debug("Generated %s from template %s", outputPath, templateRef.Path)
	return nil
}

func (te *TemplateEngine) ListTemplates() ([]string, error) {
	var templates []string

	err := fs.WalkDir(TemplateFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			templates = append(templates, strings.TrimPrefix(p, "templates/"))
		}
		return nil
	})

	return templates, err
}

func (te *TemplateEngine) ValidateTemplate(templateRef TemplateRef) error {
	templatePath := path.Join("templates", templateRef.Path)

	info, err := fs.Stat(TemplateFS, templatePath)
	if err != nil {
		notFound := errors.Newf("template not found: %s", templateRef.Path)
		if available, listErr := te.ListTemplates(); listErr == nil {
			return errors.WithHintf(notFound, "available templates: %s", strings.Join(available, ", "))
		}
		return notFound
	}

	if info.IsDir() != templateRef.IsDirectory() {
		return errors.Newf("template reference type mismatch for %s: expected dir=%t, got dir=%t",
			templateRef.Path, templateRef.IsDirectory(), info.IsDir())
	}

	return nil
}
