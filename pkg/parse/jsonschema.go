package parse

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/xeipuuv/gojsonschema"
)

const errorTemplateStr = `
Validation Errors:
{{ range . }}
- {{ . }}
{{ end }}
`

type ValidationResult struct {
	Valid            bool
	ValidationErrors string
}

// ValidateJSON checks a JSON document against a JSON schema. Schema
// violations are reported in the result, not as an error; the error return is
// for unparseable schema or document.
func ValidateJSON(schema string, document string) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewStringLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate json: %v", err)
	}

	validationResult := &ValidationResult{
		Valid: result.Valid(),
	}

	if !result.Valid() {
		var errorDescriptions []string
		for _, desc := range result.Errors() {
			errorDescriptions = append(errorDescriptions, desc.String())
		}

		tmpl, err := template.New("errorTmpl").Parse(errorTemplateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing the template: %v", err)
		}
		var renderedErrors bytes.Buffer
		err = tmpl.Execute(&renderedErrors, errorDescriptions)
		if err != nil {
			return nil, fmt.Errorf("error rendering the template: %v", err)
		}
		validationResult.ValidationErrors = renderedErrors.String()
	}

	return validationResult, nil
}
