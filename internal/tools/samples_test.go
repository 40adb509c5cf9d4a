package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCodeSample_AllLanguages(t *testing.T) {
	params := sampleParams{
		PortalURL: "https://portal.staging.appforge.dev",
		ClientID:  "app_client_123",
	}

	for _, language := range SampleLanguages() {
		t.Run(language, func(t *testing.T) {
			code, err := renderCodeSample(language, params)
			require.NoError(t, err)
			assert.Contains(t, code, params.PortalURL)
			assert.Contains(t, code, params.ClientID)
		})
	}
}

func TestRenderCodeSample_CaseInsensitiveLanguage(t *testing.T) {
	_, err := renderCodeSample("Python", sampleParams{PortalURL: "https://x", ClientID: "c"})
	assert.NoError(t, err)
}

func TestRenderCodeSample_UnsupportedLanguage(t *testing.T) {
	_, err := renderCodeSample("cobol", sampleParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
	assert.Contains(t, err.Error(), "curl", "error should enumerate supported languages")
}
