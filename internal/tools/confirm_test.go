package tools

import (
	"testing"

	"portalmcp/internal/portal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_LiveRotationWithoutPhrase(t *testing.T) {
	req := Confirm(OpRotateCredentials, portal.EnvironmentLive, "")
	require.NotNil(t, req)
	assert.True(t, req.RequiresConfirmation)
	assert.Equal(t, "ROTATE LIVE CREDENTIALS", req.ConfirmationPhrase)
	assert.Contains(t, req.Warning, "production")
}

func TestConfirm_LiveRotationWithExactPhraseProceeds(t *testing.T) {
	assert.Nil(t, Confirm(OpRotateCredentials, portal.EnvironmentLive, "ROTATE LIVE CREDENTIALS"))
}

func TestConfirm_PhraseMatchIsExact(t *testing.T) {
	tests := []string{
		"rotate live credentials",
		"ROTATE LIVE CREDENTIALS ",
		" ROTATE LIVE CREDENTIALS",
		"ROTATE LIVE CREDENTIAL",
		"ROTATE TEST CREDENTIALS",
	}

	for _, supplied := range tests {
		req := Confirm(OpRotateCredentials, portal.EnvironmentLive, supplied)
		assert.NotNil(t, req, "phrase %q must not pass the gate", supplied)
	}
}

func TestConfirm_TestTierIsStillGated(t *testing.T) {
	// Test-tier mutations are softer in wording but never silently proceed.
	req := Confirm(OpRotateCredentials, portal.EnvironmentTest, "whatever")
	require.NotNil(t, req)
	assert.True(t, req.RequiresConfirmation)
	assert.Equal(t, "ROTATE TEST CREDENTIALS", req.ConfirmationPhrase)
	assert.NotContains(t, req.Warning, "production")
}

func TestConfirm_PhrasesAreOperationSpecific(t *testing.T) {
	seen := map[string]Operation{}
	for _, op := range []Operation{OpRotateCredentials, OpAddRedirectURI, OpRemoveRedirectURI, OpDeleteApplication} {
		for _, env := range []string{portal.EnvironmentTest, portal.EnvironmentLive} {
			req := Confirm(op, env, "")
			require.NotNil(t, req, "%s/%s", op, env)
			require.NotEmpty(t, req.ConfirmationPhrase, "%s/%s", op, env)
			require.NotEmpty(t, req.Warning, "%s/%s", op, env)

			if prev, dup := seen[req.ConfirmationPhrase]; dup {
				t.Errorf("phrase %q reused by %s and %s", req.ConfirmationPhrase, prev, op)
			}
			seen[req.ConfirmationPhrase] = op
		}
	}
}

func TestConfirm_CrossOperationPhraseRejected(t *testing.T) {
	// A phrase valid for one operation must not unlock another.
	req := Confirm(OpDeleteApplication, portal.EnvironmentLive, "ROTATE LIVE CREDENTIALS")
	assert.NotNil(t, req)
}

func TestConfirm_UnknownEnvironmentNeverProceeds(t *testing.T) {
	req := Confirm(OpRotateCredentials, "staging", "anything")
	require.NotNil(t, req)
	assert.True(t, req.RequiresConfirmation)
}
