package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tayloree/storefront/internal/api"
)

func TestDecodeCatalog_Array(t *testing.T) {
	data := []byte(`[
		{"name":"Ghee","category":"Grocery","subcategory":"Oils","price":20,"available":0,"weight":"500g"},
		{"name":"Ghee","category":"Grocery","subcategory":"Oils","price":"35","available":"5","weight":"1kg","isNew":"yes"}
	]`)

	products, err := api.DecodeCatalog(data)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Ghee", products[0].Name)
	assert.Equal(t, 20.0, products[0].Price)
	assert.False(t, products[0].InStock())
	assert.Equal(t, 35.0, products[1].Price)
	assert.Equal(t, 5.0, products[1].Available)
	assert.True(t, products[1].IsNew)
}

func TestDecodeCatalog_ProductsWrapper(t *testing.T) {
	products, err := api.DecodeCatalog([]byte(`{"products":[{"name":"Rice"}]}`))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Rice", products[0].Name)
}

func TestDecodeCatalog_UnexpectedShapeIsEmpty(t *testing.T) {
	for _, payload := range []string{`{}`, `{"products":"nope"}`, `42`, `"text"`, `null`} {
		products, err := api.DecodeCatalog([]byte(payload))
		require.NoError(t, err, payload)
		assert.Empty(t, products, payload)
	}
}

func TestDecodeCatalog_SkipsNonObjects(t *testing.T) {
	products, err := api.DecodeCatalog([]byte(`[1, "x", null, {"name":"Dates"}]`))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Dates", products[0].Name)
}

func TestDecodeCatalog_InvalidJSON(t *testing.T) {
	_, err := api.DecodeCatalog([]byte(`[{"name":`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding catalog")
}

func TestDecodeCatalog_Aliases(t *testing.T) {
	data := []byte(`[{
		"name":"Laddu","is_new":1,"is_trending":"TRUE","is_banner":0,
		"dis_count":"15","images":["a.png"," ","b.png"],"imageFolder":"sweets"
	}]`)

	products, err := api.DecodeCatalog(data)

	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products[0]
	assert.True(t, p.IsNew)
	assert.True(t, p.IsTrending)
	assert.False(t, p.IsBanner)
	assert.Equal(t, 15.0, p.Discount)
	assert.Equal(t, []string{"a.png", "b.png"}, p.Images)
	assert.Equal(t, "sweets", p.ImageFolder)
}

func TestDecodeCatalog_MalformedNumbersCoerceToZero(t *testing.T) {
	products, err := api.DecodeCatalog([]byte(`[{"name":"X","price":"abc","discount":{},"available":null}]`))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Zero(t, products[0].Price)
	assert.Zero(t, products[0].Discount)
	assert.Zero(t, products[0].Available)
}

func TestProduct_UnmarshalJSON(t *testing.T) {
	var p api.Product
	err := json.Unmarshal([]byte(`{"name":"Tea","isBanner":"Yes","price":"4.5"}`), &p)

	require.NoError(t, err)
	assert.Equal(t, "Tea", p.Name)
	assert.True(t, p.IsBanner)
	assert.Equal(t, 4.5, p.Price)
}

func TestEncodeCatalog_DecodesBack(t *testing.T) {
	in := []api.Product{{Name: "Tea", Category: "Drinks", Price: 4.5, IsNew: true, Images: []string{"t.png"}}}

	data, err := api.EncodeCatalog(in)
	require.NoError(t, err)

	out, err := api.DecodeCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeCatalog_NilIsEmptyArray(t *testing.T) {
	data, err := api.EncodeCatalog(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestToBool(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{1.0, true},
		{0.0, false},
		{2, true},
		{0, false},
		{"yes", true},
		{" YES ", true},
		{"true", true},
		{"1", true},
		{"no", false},
		{"false", false},
		{"", false},
		{"0", false},
		{json.Number("3"), true},
		{[]any{true}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, api.ToBool(tt.input), "ToBool(%#v)", tt.input)
	}
}

func TestProduct_Identity(t *testing.T) {
	withCode := api.Product{Name: "Ghee", Weight: "1kg", Price: 35, ProductCode: "GH-1"}
	sameCodeOtherFields := api.Product{Name: "Ghee Pure", Weight: "2kg", Price: 60, ProductCode: " GH-1 "}
	noCode := api.Product{Name: "Ghee", Weight: "1kg", Price: 35}
	noCodeOtherPrice := api.Product{Name: "Ghee", Weight: "1kg", Price: 36}

	assert.Equal(t, withCode.Identity(), sameCodeOtherFields.Identity())
	assert.NotEqual(t, withCode.Identity(), noCode.Identity())
	assert.NotEqual(t, noCode.Identity(), noCodeOtherPrice.Identity())
	assert.Equal(t, noCode.Identity(), api.Product{Name: "Ghee", Weight: "1kg", Price: 35, Available: 9}.Identity())
}
