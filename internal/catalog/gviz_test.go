package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSheet = `google.visualization.Query.setResponse({"version":"0.6","table":{
"cols":[
  {"id":"A","label":"id"},
  {"id":"B","label":"Name"},
  {"id":"C","label":"Category"},
  {"id":"D","label":"price_250g"},
  {"id":"E","label":"price_500g"},
  {"id":"F","label":"price_1kg"},
  {"id":"G","label":"base_price_1kg"},
  {"id":"H","label":"Stock"}
],
"rows":[
  {"c":[{"v":"spinach"},{"v":"Spinach"},{"v":"Leafy"},{"v":30},{"v":"55"},{"v":100},{"v":null},{"v":"available"}]},
  {"c":[{"v":null},{"v":"Red Chilli"},{"v":null},{"v":null},{"v":null},{"v":null},{"v":400},{"v":"out"}]},
  {"c":[{"v":"okra"},{"v":"Okra"},{"v":"vegetables"},{"v":null},{"v":null},{"v":80},{"v":null},{"v":null}]}
]}});`

func TestParseSheet(t *testing.T) {
	products, err := ParseSheet([]byte(sampleSheet))
	require.NoError(t, err)
	require.Len(t, products, 3)

	spinach := products[0]
	assert.Equal(t, "spinach", spinach.ID)
	assert.Equal(t, "Spinach", spinach.Name)
	assert.Equal(t, "leafy", spinach.Category)
	assert.Equal(t, "available", spinach.Stock)

	// string price cells are coerced to numbers
	v, ok := spinach.Attr("price_500g")
	require.True(t, ok)
	assert.Equal(t, 55.0, v)

	// base price falls back to the 1kg tier when absent
	base, ok := spinach.Attr("base_price_1kg")
	require.True(t, ok)
	assert.Equal(t, 100.0, base)
}

func TestParseSheet_RowDefaults(t *testing.T) {
	products, err := ParseSheet([]byte(sampleSheet))
	require.NoError(t, err)

	chilli := products[1]
	// missing id derives from the name and row position, so it is stable
	// across reloads
	assert.Equal(t, "red-chilli-2", chilli.ID)
	assert.Equal(t, "others", chilli.Category)
	assert.True(t, chilli.OutOfStock())

	okra := products[2]
	assert.Equal(t, "available", okra.Stock)
	assert.Equal(t, "images/okra.jpg", okra.Image)
	assert.Equal(t, "Fresh Okra - premium quality.", okra.Description)
}

func TestParseSheet_DeterministicFallbackIDs(t *testing.T) {
	first, err := ParseSheet([]byte(sampleSheet))
	require.NoError(t, err)
	second, err := ParseSheet([]byte(sampleSheet))
	require.NoError(t, err)
	assert.Equal(t, first[1].ID, second[1].ID)
}

func TestParseSheet_HTMLResponse(t *testing.T) {
	_, err := ParseSheet([]byte("<!doctype html><html><body>sign in</body></html>"))
	assert.ErrorIs(t, err, ErrHTMLResponse)
}

func TestParseSheet_Garbage(t *testing.T) {
	_, err := ParseSheet([]byte("setResponse({not json)"))
	assert.Error(t, err)
}

func TestSheetURL(t *testing.T) {
	url := SheetURL("abc123", "My Products")
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123/gviz/tq?tqx=out:json&sheet=My%20Products", url)
}
