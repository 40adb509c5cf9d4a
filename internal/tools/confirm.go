package tools

import "portalmcp/internal/portal"

// Operation names the gated mutations.
type Operation string

const (
	OpRotateCredentials Operation = "rotate_credentials"
	OpAddRedirectURI    Operation = "add_redirect_uri"
	OpRemoveRedirectURI Operation = "remove_redirect_uri"
	OpDeleteApplication Operation = "delete_application"
)

// ConfirmationRequest is returned instead of performing a mutation when the
// caller has not confirmed it. The caller resubmits the exact phrase in the
// confirm argument on the next invocation; no state is kept server-side.
type ConfirmationRequest struct {
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	ConfirmationPhrase   string `json:"confirmationPhrase"`
	Warning              string `json:"warning"`
}

// confirmationPhrases are fixed literals per operation and environment.
// They are deliberately not derivable from the tier alone, so a caller
// cannot guess its way past a gate it has never seen.
var confirmationPhrases = map[Operation]map[string]string{
	OpRotateCredentials: {
		portal.EnvironmentLive: "ROTATE LIVE CREDENTIALS",
		portal.EnvironmentTest: "ROTATE TEST CREDENTIALS",
	},
	OpAddRedirectURI: {
		portal.EnvironmentLive: "ADD LIVE REDIRECT URI",
		portal.EnvironmentTest: "ADD TEST REDIRECT URI",
	},
	OpRemoveRedirectURI: {
		portal.EnvironmentLive: "REMOVE LIVE REDIRECT URI",
		portal.EnvironmentTest: "REMOVE TEST REDIRECT URI",
	},
	OpDeleteApplication: {
		portal.EnvironmentLive: "DELETE LIVE APPLICATION",
		portal.EnvironmentTest: "DELETE TEST APPLICATION",
	},
}

var confirmationWarnings = map[Operation]map[string]string{
	OpRotateCredentials: {
		portal.EnvironmentLive: "Rotating live credentials invalidates the current client secret immediately. Every production service using it will fail to authenticate until updated with the new secret.",
		portal.EnvironmentTest: "Rotating test credentials invalidates the current test client secret. Test integrations using it will need the new secret.",
	},
	OpAddRedirectURI: {
		portal.EnvironmentLive: "Adding a live redirect URI changes where production OAuth flows may send users and tokens. A wrong or attacker-controlled URI is a credential-leak vector.",
		portal.EnvironmentTest: "This adds a redirect URI to a test application.",
	},
	OpRemoveRedirectURI: {
		portal.EnvironmentLive: "Removing a live redirect URI breaks every production OAuth flow that uses it, immediately.",
		portal.EnvironmentTest: "This removes a redirect URI from a test application.",
	},
	OpDeleteApplication: {
		portal.EnvironmentLive: "Deleting a live application permanently removes it and invalidates its credentials. All production traffic for this application stops immediately. This cannot be undone.",
		portal.EnvironmentTest: "This permanently deletes a test application. It cannot be undone.",
	},
}

// Confirm decides whether a gated mutation may proceed. It returns nil when
// the supplied phrase matches the expected literal for the operation and
// environment, and a ConfirmationRequest otherwise.
//
// Every gated mutation requires a phrase, in both environments; the
// environment only changes the warning's severity. This is a pure decision
// function: it performs no network calls and keeps no state.
func Confirm(op Operation, environment, supplied string) *ConfirmationRequest {
	expected := confirmationPhrases[op][environment]
	if expected == "" {
		// Unknown operation/environment pairs never proceed silently.
		return &ConfirmationRequest{
			RequiresConfirmation: true,
			Warning:              "This operation is not recognized for the given environment.",
		}
	}

	if supplied == expected {
		return nil
	}

	return &ConfirmationRequest{
		RequiresConfirmation: true,
		ConfirmationPhrase:   expected,
		Warning:              confirmationWarnings[op][environment],
	}
}
