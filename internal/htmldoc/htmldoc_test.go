package htmldoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html>
<head>
<title>  Jane Doe -  Engineer  </title>
<meta name="description" content=" A profile page. ">
<style>body { color: red; }</style>
</head>
<body>
<script>console.log("tracking");</script>
<h1 class="title">Jane   Doe</h1>
<ul>
<li class="item">first</li>
<li class="item">second</li>
</ul>
<noscript>enable javascript</noscript>
</body>
</html>`

func parse(t *testing.T) Document {
	t.Helper()
	doc, err := Parse(sampleHTML)
	require.NoError(t, err)
	return doc
}

func TestSelectText_Normalizes(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, "Jane Doe", doc.SelectText("h1.title"))
}

func TestSelectText_NoMatch(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, "", doc.SelectText(".missing"))
}

func TestSelectAllText(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, []string{"first", "second"}, doc.SelectAllText("li.item"))
}

func TestExists(t *testing.T) {
	doc := parse(t)
	assert.True(t, doc.Exists("h1.title"))
	assert.False(t, doc.Exists("input[type=\"password\"]"))
}

func TestAttr(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, "A profile page.", doc.Attr(`meta[name="description"]`, "content"))
	assert.Equal(t, "", doc.Attr(`meta[name="missing"]`, "content"))
}

func TestTitle_Normalized(t *testing.T) {
	doc := parse(t)
	assert.Equal(t, "Jane Doe - Engineer", doc.Title())
}

func TestText_StripsScriptStyleNoise(t *testing.T) {
	doc := parse(t)
	text := doc.Text()
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "first second")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "enable javascript")
}
