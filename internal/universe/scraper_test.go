package universe

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const constituentsHTML = `
<html><body>
<table id="constituents">
<thead><tr><th>Ticker</th><th>Company</th></tr></thead>
<tbody>
<tr><td>AAPL</td><td>Apple Inc.</td></tr>
<tr><td>MSFT</td><td>Microsoft</td></tr>
<tr><td>Alphabet Inc. (Class A)</td><td>GOOGL</td></tr>
<tr><td></td><td>Broken Row</td></tr>
<tr><td>bad ticker</td><td>Lowercase Co</td></tr>
</tbody>
</table>
</body></html>
`

func TestParseConstituents(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(constituentsHTML))
	require.NoError(t, err)

	got := parseConstituents(doc)
	require.Len(t, got, 3)

	assert.Equal(t, Constituent{Asset: "AAPL", Name: "Apple Inc."}, got[0])
	assert.Equal(t, Constituent{Asset: "MSFT", Name: "Microsoft"}, got[1])

	// Swapped column order is detected and corrected.
	assert.Equal(t, "GOOGL", got[2].Asset)
	assert.Equal(t, "Alphabet Inc. (Class A)", got[2].Name)
}

func TestParseConstituentsEmptyDoc(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)

	assert.Empty(t, parseConstituents(doc))
}

func TestLooksLikeTicker(t *testing.T) {
	assert.True(t, looksLikeTicker("AAPL"))
	assert.True(t, looksLikeTicker("BRK.B"))
	assert.False(t, looksLikeTicker("aapl"))
	assert.False(t, looksLikeTicker(""))
	assert.False(t, looksLikeTicker("TOOLONGX"))
}
