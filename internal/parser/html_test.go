package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLParser(t *testing.T) {
	input := `<!doctype html>
<html>
<head><title>Quarterly Report</title><style>p { color: red; }</style></head>
<body>
  <nav><a href="/">Home</a></nav>
  <p>Lead paragraph.</p>
  <h1>Results</h1>
  <p>Revenue <b>grew</b> strongly.</p>
  <ul><li>First point</li><li>Second point</li></ul>
  <script>var x = "ignored";</script>
  <h2>Outlook</h2>
  <div><p>Stable.</p></div>
  <footer>Copyright</footer>
</body>
</html>`

	doc, err := (&HTMLParser{}).Parse(strings.NewReader(input), "report.html")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Report", doc.Title)

	require.Len(t, doc.Sections, 3)
	assert.Equal(t, "", doc.Sections[0].Heading)
	assert.Equal(t, "Lead paragraph.", doc.Sections[0].Text)
	assert.Equal(t, "Results", doc.Sections[1].Heading)
	assert.Equal(t, "Revenue grew strongly.\n\nFirst point\n\nSecond point", doc.Sections[1].Text)
	assert.Equal(t, "Outlook", doc.Sections[2].Heading)
	assert.Equal(t, "Stable.", doc.Sections[2].Text)

	full := doc.Text()
	assert.NotContains(t, full, "ignored")
	assert.NotContains(t, full, "Copyright")
	assert.NotContains(t, full, "Home")
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	doc, err := (&HTMLParser{}).Parse(strings.NewReader("<p>No title here.</p>"), "page.htm")
	require.NoError(t, err)
	assert.Equal(t, "page", doc.Title)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "No title here.", doc.Sections[0].Text)
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 1, headingLevel("h1"))
	assert.Equal(t, 6, headingLevel("h6"))
	assert.Equal(t, 0, headingLevel("h7"))
	assert.Equal(t, 0, headingLevel("hr"))
	assert.Equal(t, 0, headingLevel("p"))
}
