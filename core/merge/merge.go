package merge

import (
	"strings"

	"github.com/samber/lo"
	"github.com/tristendillon/geninterface/core/models"
)

// Report summarizes how a merge reconciled the two record sets.
type Report struct {
	// Preserved counts fresh declarations whose body was taken from the
	// existing file.
	Preserved int
	// Extras counts existing declarations with no fresh counterpart.
	Extras int
	// Added counts fresh declarations that did not exist before.
	Added int
}

// Merge reconciles freshly synthesized declarations with the ones parsed from
// an existing companion file. Existing bodies win over fresh ones; existing
// declarations unknown to fresh are kept and placed first.
func Merge(fresh, existing *models.RecordSet) *models.RecordSet {
	merged, _ := MergeWithReport(fresh, existing)
	return merged
}

func MergeWithReport(fresh, existing *models.RecordSet) (*models.RecordSet, Report) {
	var report Report

	result := fresh.Clone()
	extras := models.NewRecordSet()

	for _, decl := range existing.Declarations() {
		if result.Has(decl.Name) {
			result.Put(decl)
			continue
		}
		extras.Put(decl)
	}

	for _, name := range fresh.Names() {
		if existing.Has(name) {
			report.Preserved++
		} else {
			report.Added++
		}
	}
	report.Extras = extras.Len()

	merged := extras
	for _, decl := range result.Declarations() {
		merged.Put(decl)
	}
	return merged, report
}

// Render joins declaration bodies with one blank line between them.
func Render(rs *models.RecordSet) string {
	bodies := lo.Map(rs.Declarations(), func(d models.NamedDeclaration, _ int) string {
		return d.Body
	})
	return strings.Join(bodies, "\n\n")
}

// RenderFile renders rs as file content ending in exactly one newline. An
// empty set renders as an empty file.
func RenderFile(rs *models.RecordSet) string {
	return NormalizeTrailingNewline(Render(rs))
}

func NormalizeTrailingNewline(text string) string {
	trimmed := strings.TrimRight(text, "\r\n")
	if trimmed == "" {
		return ""
	}
	return trimmed + "\n"
}
