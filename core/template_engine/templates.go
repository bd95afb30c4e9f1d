package template_engine

import "embed"

//go:embed templates
var TemplateFS embed.FS

var TEMPLATES = struct {
	DECLARATION TemplateRef
	CONFIG      TemplateRef
}{
	DECLARATION: TemplateRef{Path: "declaration.ts.tmpl"},
	CONFIG:      TemplateRef{Path: "config/gen-interface.yaml.tmpl"},
}
