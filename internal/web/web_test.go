package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderForm(t *testing.T) {
	html, err := RenderForm(FormPage{DefaultModel: "FunAudioLLM/CosyVoice2-0.5B", MaxSizeMB: 50})
	require.NoError(t, err)

	page := string(html)
	assert.Contains(t, page, "<title>"+Title+"</title>")
	assert.Contains(t, page, `value="FunAudioLLM/CosyVoice2-0.5B"`)
	assert.Contains(t, page, `name="apiKey"`)
	assert.Contains(t, page, `type="password"`)
	assert.Contains(t, page, `name="customName"`)
	assert.Contains(t, page, `name="text"`)
	assert.Contains(t, page, `name="file"`)
	assert.Contains(t, page, `id="result-output"`)
	assert.Contains(t, page, "at most 50MB")
}

func TestRenderForm_EscapesModel(t *testing.T) {
	html, err := RenderForm(FormPage{DefaultModel: `"><script>x</script>`})
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>x</script>")
}
