// internal/workers/simulation/simulate-loan-portfolio/validation.go
package simulateloanportfolio

import "loan-risk-sim/internal/common/validation"

// GetInputSchema describes the job variables this worker reads. Other process
// variables are allowed through.
func GetInputSchema() validation.JSONSchema {
	distribution := validation.StringPtr(`^(?i)(normal|uniform|gamma)$`)
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sourcePath": {
				Type:        "string",
				Description: "Local path, http(s) URL, s3://bucket/key or postgres table",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(2048),
			},
			"sourceFormat": {
				Type:        "string",
				Description: "Source format; detected from the path when empty",
				Enum:        []string{"", "csv", "xlsx", "postgres"},
			},
			"interestRateDistribution": {
				Type:        "string",
				Description: "Distribution of the monthly interest rate path",
				Pattern:     distribution,
			},
			"maintenanceCostDistribution": {
				Type:        "string",
				Description: "Distribution of client maintenance costs",
				Pattern:     distribution,
			},
			"bankMarginPct": {
				Type:        "number",
				Description: "Bank margin in percent",
				Minimum:     validation.Float64Ptr(0),
			},
			"decisionTimeRatePct": {
				Type:        "number",
				Description: "Market rate in percent at admission",
			},
			"numberOfClients": {
				Type:        "integer",
				Description: "Applicants taken from the source and draw pool size",
				Minimum:     validation.Float64Ptr(1),
				Maximum:     validation.Float64Ptr(1000000),
			},
			"defaultPolicy": {
				Type:        "string",
				Description: "A (immediate) or B (grace)",
				Pattern:     validation.StringPtr(`^(?i)(a|b|immediate|grace)$`),
			},
			"seed": {
				Type:        "integer",
				Description: "Generator seed; 0 picks one from the clock",
				Minimum:     validation.Float64Ptr(0),
			},
			"runs": {
				Type:        "integer",
				Description: "Independent rate paths simulated over the same portfolio",
				Minimum:     validation.Float64Ptr(1),
				Maximum:     validation.Float64Ptr(1000),
			},
		},
		AdditionalProperties: true,
	}
}
