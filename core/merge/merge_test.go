package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/geninterface/core/config"
	"github.com/tristendillon/geninterface/core/models"
	"github.com/tristendillon/geninterface/core/synth"
)

func decl(name, body string) models.NamedDeclaration {
	return models.NamedDeclaration{Name: name, Body: body}
}

func TestMergeExistingBodyWins(t *testing.T) {
	fresh := models.NewRecordSet(decl("ARequest", "empty"))
	existing := models.NewRecordSet(decl("ARequest", "filled-by-hand"))

	merged := Merge(fresh, existing)

	a, ok := merged.Get("ARequest")
	require.True(t, ok)
	assert.Equal(t, "filled-by-hand", a.Body)
	assert.Equal(t, 1, merged.Len())
}

func TestMergeExtrasFirst(t *testing.T) {
	fresh := models.NewRecordSet(decl("A", "a"))
	existing := models.NewRecordSet(decl("Z", "z"), decl("A", "edited"))

	merged := Merge(fresh, existing)

	assert.Equal(t, []models.NamedDeclaration{
		decl("Z", "z"),
		decl("A", "edited"),
	}, merged.Declarations())
}

func TestMergeKeepsFreshOrder(t *testing.T) {
	fresh := models.NewRecordSet(decl("A", "a"), decl("B", "b"), decl("C", "c"))
	existing := models.NewRecordSet(decl("C", "c2"), decl("X", "x"), decl("A", "a2"), decl("Y", "y"))

	merged, report := MergeWithReport(fresh, existing)

	assert.Equal(t, []models.NamedDeclaration{
		decl("X", "x"),
		decl("Y", "y"),
		decl("A", "a2"),
		decl("B", "b"),
		decl("C", "c2"),
	}, merged.Declarations())
	assert.Equal(t, Report{Preserved: 2, Extras: 2, Added: 1}, report)
}

func TestMergeIdempotent(t *testing.T) {
	fresh := models.NewRecordSet(decl("A", "a"), decl("B", "b"))
	existing := models.NewRecordSet(decl("Z", "z"), decl("B", "edited"))

	once := Merge(fresh, existing)
	twice := Merge(fresh, once)

	assert.Equal(t, once.Declarations(), twice.Declarations())
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	fresh := models.NewRecordSet(decl("A", "a"))
	existing := models.NewRecordSet(decl("A", "edited"), decl("Z", "z"))

	Merge(fresh, existing)

	a, _ := fresh.Get("A")
	assert.Equal(t, "a", a.Body)
	assert.Equal(t, []string{"A", "Z"}, existing.Names())
}

func TestMergeWithEmptyExisting(t *testing.T) {
	fresh := models.NewRecordSet(decl("A", "a"))

	assert.Equal(t, fresh.Declarations(), Merge(fresh, models.NewRecordSet()).Declarations())
	assert.Equal(t, fresh.Declarations(), Merge(fresh, nil).Declarations())
}

func TestMergeWithEmptyFresh(t *testing.T) {
	existing := models.NewRecordSet(decl("Z", "z"), decl("Y", "y"))

	merged, report := MergeWithReport(models.NewRecordSet(), existing)

	assert.Equal(t, existing.Declarations(), merged.Declarations())
	assert.Equal(t, Report{Extras: 2}, report)
}

func TestRender(t *testing.T) {
	rs := models.NewRecordSet(decl("A", "block a"), decl("B", "block b"))

	assert.Equal(t, "block a\n\nblock b", Render(rs))
	assert.Equal(t, "block a\n\nblock b\n", RenderFile(rs))
	assert.Equal(t, "", RenderFile(models.NewRecordSet()))
}

func TestNormalizeTrailingNewline(t *testing.T) {
	assert.Equal(t, "x\n", NormalizeTrailingNewline("x"))
	assert.Equal(t, "x\n", NormalizeTrailingNewline("x\n\n\n"))
	assert.Equal(t, "x\n", NormalizeTrailingNewline("x\r\n"))
	assert.Equal(t, "", NormalizeTrailingNewline("\n"))
}

func TestParseRenderRoundTrip(t *testing.T) {
	s, err := synth.NewSynthesizer(config.Default().Generate)
	require.NoError(t, err)

	src := `/** extra */
export interface Extra extends Base {
  a: { b: { c: number } };
}

/**
 * create user参数
 */
export interface CreateUserRequest {
  name: string;
}

/** create user响应 */
export interface CreateUserResponse {

}
`

	first, err := s.Existing(src)
	require.NoError(t, err)
	require.Equal(t, 3, first.Len())

	second, err := s.Existing(RenderFile(first))
	require.NoError(t, err)

	assert.Equal(t, first.Declarations(), second.Declarations())
}
