package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesDefinePages(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"header", "footer", "errors", "index", "error",
		"category_list", "category_detail", "category_form", "category_delete",
		"instructor_list", "instructor_detail", "instructor_form", "instructor_delete",
		"course_list", "course_detail", "course_form", "course_delete",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestStoredTextIsEscapedOnce(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var out bytes.Buffer
	err = tmpl.ExecuteTemplate(&out, "category_form", map[string]any{
		"Title": "Update Category",
		"Form":  map[string]string{"title": "Tom &amp; Jerry &lt;3"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), `value="Tom &amp; Jerry &lt;3"`)
	assert.NotContains(t, out.String(), "&amp;amp;")
}
