// internal/agent/queryplan/validator.go
package queryplan

import (
	"strings"

	"storefront-insights/internal/models"
)

// knownSources is the closed set of queryable data sources.
var knownSources = map[string]bool{
	"orders":           true,
	"products":         true,
	"inventory_levels": true,
	"customers":        true,
}

// Validator statically checks StoreQL text before execution. Rejections
// are user-correctable, not internal faults.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns the outcome with a reason on rejection.
func (v *Validator) Validate(query string) models.Validation {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return reject("query is empty")
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "FROM ") {
		return reject("query must start with a FROM clause")
	}

	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return reject("FROM clause names no data source")
	}
	source := strings.ToLower(fields[1])
	if !knownSources[source] {
		return reject("unknown data source: " + source)
	}

	if !strings.Contains(upper, " SHOW ") {
		return reject("query selects no fields")
	}

	if strings.Count(trimmed, "'")%2 != 0 {
		return reject("unbalanced quotes")
	}

	return models.Validation{Passed: true}
}

func reject(reason string) models.Validation {
	return models.Validation{Passed: false, Reason: reason}
}
