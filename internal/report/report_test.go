package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/types"
)

var generated = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleRecs() []types.Recommendation {
	return []types.Recommendation{
		{
			ID: 3, Career: "Data Scientist", Score: 88.4, Description: "Strong alignment",
			Details: &types.Details{
				Overview: "Analyze data", Skills: []string{"Statistics", "SQL"},
				Education: "BSc", Salary: "$95,000 - $165,000", Outlook: "Very Good", WorkEnvironment: "Office",
			},
		},
		{ID: 1, Career: "Teacher", Score: 52, Description: "Helping others"},
	}
}

func TestBuild_RanksInListOrder(t *testing.T) {
	user := &types.User{Name: "Ada", Email: "ada@example.com"}
	r := Build(user, sampleRecs(), generated)

	require.Len(t, r.Entries, 2)
	assert.Equal(t, 1, r.Entries[0].Rank)
	assert.Equal(t, "Data Scientist", r.Entries[0].Career)
	assert.Equal(t, 2, r.Entries[1].Rank)
	assert.Equal(t, "Ada", r.Name)

	top, ok := r.Top()
	require.True(t, ok)
	assert.Equal(t, "Data Scientist", top.Career)
	assert.Equal(t, "88%", top.ScoreLabel())
}

func TestBuild_NilUserAndNoRecs(t *testing.T) {
	r := Build(nil, nil, generated)
	assert.Empty(t, r.Name)
	assert.Empty(t, r.Entries)
	_, ok := r.Top()
	assert.False(t, ok)
}

func TestRenderText(t *testing.T) {
	r := Build(&types.User{Name: "Ada", Email: "ada@example.com"}, sampleRecs(), generated)
	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf))
	out := buf.String()

	assert.Contains(t, out, "Prepared for Ada <ada@example.com>")
	assert.Contains(t, out, "Generated March 14, 2026")
	assert.Contains(t, out, "#1 Data Scientist (88%)")
	assert.Contains(t, out, "Skills: Statistics, SQL")
	assert.Contains(t, out, "#2 Teacher (52%)")
	assert.Less(t, strings.Index(out, "#1"), strings.Index(out, "#2"))
}

func TestRenderText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Build(nil, nil, generated).RenderText(&buf))
	assert.Contains(t, buf.String(), "No career recommendations found. Please take the quiz first.")
}

func TestRenderHTML(t *testing.T) {
	r := Build(&types.User{Name: "Ada", Email: "ada@example.com"}, sampleRecs(), generated)
	var buf bytes.Buffer
	require.NoError(t, r.RenderHTML(&buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "Ada", doc.Find(".user .name").Text())
	items := doc.Find("li.recommendation")
	require.Equal(t, 2, items.Length())

	first := items.First()
	rank, _ := first.Attr("data-rank")
	assert.Equal(t, "1", rank)
	assert.Equal(t, "Data Scientist", first.Find(".career").Text())
	assert.Equal(t, "88%", first.Find(".score").Text())
	assert.Equal(t, 2, first.Find(".skills li").Length())
	assert.Equal(t, "Very Good", first.Find(".outlook").Text())

	second := items.Eq(1)
	assert.Equal(t, "Teacher", second.Find(".career").Text())
	assert.Zero(t, second.Find(".details").Length())
}

func TestRenderHTML_EscapesValues(t *testing.T) {
	recs := []types.Recommendation{{Career: "<script>alert(1)</script>", Score: 40}}
	var buf bytes.Buffer
	require.NoError(t, Build(&types.User{Name: "A & B"}, recs, generated).RenderHTML(&buf))

	assert.NotContains(t, buf.String(), "<script>")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "<script>alert(1)</script>", doc.Find(".career").Text())
	assert.Equal(t, "A & B", doc.Find(".user .name").Text())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("pdf")
	var unknown *UnknownFormatError
	assert.ErrorAs(t, err, &unknown)
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Build(nil, nil, generated).Render(&buf, Format("pdf"))
	var unknown *UnknownFormatError
	assert.ErrorAs(t, err, &unknown)
}
