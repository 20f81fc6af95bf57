package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentText(t *testing.T) {
	doc := &Document{
		Title: "report",
		Sections: []Section{
			{Text: "  First   page\r\nbody *** text. ", Page: 1},
			{Text: "@@@ ###", Page: 2},
			{Heading: "Results", Text: "Revenue grew 5%.", Page: 3},
		},
	}
	assert.Equal(t, "First page body text.\nResults Revenue grew 5.", doc.Text())
	assert.Equal(t, 3, doc.Pages())
}

func TestDocumentTextEmpty(t *testing.T) {
	var nilDoc *Document
	assert.Equal(t, "", nilDoc.Text())
	assert.Equal(t, "", (&Document{Title: "x"}).Text())
	assert.Equal(t, 0, (&Document{}).Pages())
}
