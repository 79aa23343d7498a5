package diagnosis

import (
	"bytes"
	"text/template"

	. "applianceassist/internal/models"
)

const systemPrompt = "You are an expert appliance repair technician. Reply with JSON only."

var promptTemplate = template.Must(template.New("diagnosis").Parse(
	`You are an expert appliance repair technician. Based on the user's description of the issue and the type of appliance, provide a list of possible causes for the malfunction.

Appliance Type: {{.ApplianceType}}
Issue Description: {{.IssueDescription}}

Respond with a list of possible causes and a general confidence level (high, medium, low). Format the response as a JSON object with the keys "possibleCauses" (array of strings) and "confidenceLevel" (string).`,
))

func renderPrompt(query DiagnosisQuery) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, query); err != nil {
		return "", err
	}
	return buf.String(), nil
}
