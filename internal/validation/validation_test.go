package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name string `validate:"required"`
	URL  string `validate:"required,url"`
}

type httpURLSample struct {
	URL string `validate:"required,url,httpurl"`
}

func TestStructReturnsNilOnSuccess(t *testing.T) {
	errs := Struct(&sample{Name: "x", URL: "https://example.test"})
	assert.Nil(t, errs)
}

func TestStructReportsEachFailingField(t *testing.T) {
	errs := Struct(&sample{Name: "", URL: "not-a-url"})
	require.Len(t, errs, 2)

	byField := map[string]FieldError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	require.Contains(t, byField, "Name")
	require.Contains(t, byField, "URL")
	assert.Equal(t, "required", byField["Name"].Tag)
	assert.Equal(t, "url", byField["URL"].Tag)
}

func TestStructAcceptsHTTPAndHTTPSSchemes(t *testing.T) {
	assert.Nil(t, Struct(&httpURLSample{URL: "http://example.test"}))
	assert.Nil(t, Struct(&httpURLSample{URL: "https://example.test"}))
}

func TestStructRejectsNonHTTPScheme(t *testing.T) {
	errs := Struct(&httpURLSample{URL: "ftp://example.test/file"})
	require.Len(t, errs, 1)
	assert.Equal(t, "httpurl", errs[0].Tag)
}
