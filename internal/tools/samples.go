package tools

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// sampleParams feeds the code-sample templates.
type sampleParams struct {
	PortalURL string
	ClientID  string
}

// Static code-sample templates per language, rendered with the sprig func
// map so templates can use helpers like upper/quote if they grow.
var sampleTemplates = map[string]string{
	"curl": `# Request an access token with your application credentials
curl -s -X POST "{{ .PortalURL }}/oauth/token" \
  -H "Content-Type: application/x-www-form-urlencoded" \
  -d "grant_type=client_credentials" \
  -d "client_id={{ .ClientID }}" \
  -d "client_secret=$CLIENT_SECRET"
`,
	"node": `// Request an access token with your application credentials
const response = await fetch("{{ .PortalURL }}/oauth/token", {
  method: "POST",
  headers: { "Content-Type": "application/x-www-form-urlencoded" },
  body: new URLSearchParams({
    grant_type: "client_credentials",
    client_id: "{{ .ClientID }}",
    client_secret: process.env.CLIENT_SECRET,
  }),
});
const { access_token } = await response.json();
`,
	"python": `# Request an access token with your application credentials
import os
import requests

response = requests.post(
    "{{ .PortalURL }}/oauth/token",
    data={
        "grant_type": "client_credentials",
        "client_id": "{{ .ClientID }}",
        "client_secret": os.environ["CLIENT_SECRET"],
    },
)
access_token = response.json()["access_token"]
`,
	"go": `// Request an access token with your application credentials
resp, err := http.PostForm("{{ .PortalURL }}/oauth/token", url.Values{
	"grant_type":    {"client_credentials"},
	"client_id":     {"{{ .ClientID }}"},
	"client_secret": {os.Getenv("CLIENT_SECRET")},
})
if err != nil {
	log.Fatal(err)
}
defer resp.Body.Close()
`,
}

// SampleLanguages lists the languages get_code_sample supports.
func SampleLanguages() []string {
	languages := make([]string, 0, len(sampleTemplates))
	for language := range sampleTemplates {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

func renderCodeSample(language string, params sampleParams) (string, error) {
	text, ok := sampleTemplates[strings.ToLower(language)]
	if !ok {
		return "", fmt.Errorf("unsupported language %q, supported: %s", language, strings.Join(SampleLanguages(), ", "))
	}

	tmpl, err := template.New(language).Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return "", fmt.Errorf("invalid sample template for %s: %w", language, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("failed to render sample for %s: %w", language, err)
	}
	return sb.String(), nil
}
