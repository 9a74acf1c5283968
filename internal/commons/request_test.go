package commons

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Form(t *testing.T) {
	form := url.Values{}
	form.Set("product_id", "12")
	form.Add("street[]", "12 Tahrir St")
	form.Add("street[]", "Floor 3")
	form.Set("super_attribute[93]", "52")
	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	values, err := Params(req)
	require.NoError(t, err)

	assert.Equal(t, 12, IntParam(values, "product_id", 0))
	assert.Equal(t, []string{"12 Tahrir St", "Floor 3"}, ListParam(values, "street"))
	assert.Equal(t, map[int]int{93: 52}, MapParam(values, "super_attribute"))
}

func TestParams_JSON(t *testing.T) {
	body := `{"product_id": 12, "qty": "2", "customer_name": " Mona ", "street": ["12 Tahrir St"], "super_attribute": {"93": 52, "x": 1}}`
	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	values, err := Params(req)
	require.NoError(t, err)

	assert.Equal(t, 12, IntParam(values, "product_id", 0))
	assert.Equal(t, 2, IntParam(values, "qty", 1))
	assert.Equal(t, "Mona", Param(values, "customer_name"))
	assert.Equal(t, []string{"12 Tahrir St"}, ListParam(values, "street"))
	assert.Equal(t, map[int]int{93: 52}, MapParam(values, "super_attribute"))
}

func TestParams_Multipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("product_id", "12"))
	require.NoError(t, mw.WriteField("street[]", "12 Tahrir St"))
	require.NoError(t, mw.WriteField("super_attribute[93]", "52"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	values, err := Params(req)
	require.NoError(t, err)

	assert.Equal(t, "12", Param(values, "product_id"))
	assert.Equal(t, []string{"12 Tahrir St"}, ListParam(values, "street"))
	assert.Equal(t, map[int]int{93: 52}, MapParam(values, "super_attribute"))
}

func TestParams_MalformedMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/easyorder/order/create", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")

	_, err := Params(req)
	assert.Error(t, err)
}

func TestParams_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/easyorder/ajax/shipping", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")

	_, err := Params(req)
	assert.Error(t, err)
}

func TestIntParam_Default(t *testing.T) {
	values := url.Values{"qty": {"abc"}}

	assert.Equal(t, 1, IntParam(values, "qty", 1))
	assert.Equal(t, 1, IntParam(values, "missing", 1))
}

func TestListParam_IndexedAndPlain(t *testing.T) {
	values := url.Values{
		"street[0]": {"line one"},
		"street[1]": {"line two"},
	}
	assert.Equal(t, []string{"line one", "line two"}, ListParam(values, "street"))

	values = url.Values{"street": {"single line"}}
	assert.Equal(t, []string{"single line"}, ListParam(values, "street"))
}

func TestMapParam_Empty(t *testing.T) {
	assert.Nil(t, MapParam(url.Values{"super_attribute[]": {"1"}}, "super_attribute"))
}
