package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kmacleod/gavel/internal/review"
	"github.com/kmacleod/gavel/internal/rules"
)

// SARIFWriter outputs findings in SARIF v2.1.0 format. Rule IDs come
// straight from the catalog, so results are stable across runs.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *review.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	ShortDescription sarifMessage        `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig  `json:"defaultConfiguration"`
	Properties       sarifRuleProperties `json:"properties,omitempty"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifRuleProperties struct {
	Tags []string `json:"tags,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

type sarifFix struct {
	Description sarifMessage `json:"description"`
}

func buildSARIF(report *review.Report) sarifLog {
	rulesMap := make(map[string]sarifRule)
	var results []sarifResult

	for _, f := range report.Findings {
		if _, ok := rulesMap[f.RuleID]; !ok {
			rulesMap[f.RuleID] = sarifRule{
				ID:               f.RuleID,
				Name:             string(f.Category),
				ShortDescription: sarifMessage{Text: f.Message},
				DefaultConfig:    sarifDefaultConfig{Level: severityToLevel(f.Severity)},
				Properties:       sarifRuleProperties{Tags: []string{string(f.Category)}},
			}
		}

		result := sarifResult{
			RuleID:  f.RuleID,
			Level:   severityToLevel(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{
				{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: f.Path},
						Region: sarifRegion{
							StartLine: f.Lines.Start,
							EndLine:   f.Lines.End,
						},
					},
				},
			},
		}

		if f.Fix != "" {
			result.Fixes = append(result.Fixes, sarifFix{
				Description: sarifMessage{Text: f.Fix},
			})
		}

		results = append(results, result)
	}

	// Collect rules in first-seen order
	var ruleDefs []sarifRule
	seen := make(map[string]bool)
	for _, f := range report.Findings {
		if !seen[f.RuleID] {
			seen[f.RuleID] = true
			ruleDefs = append(ruleDefs, rulesMap[f.RuleID])
		}
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "gavel",
						Version:        report.Version,
						InformationURI: "https://github.com/kmacleod/gavel",
						Rules:          ruleDefs,
					},
				},
				Results: results,
			},
		},
	}
}

// severityToLevel maps gavel severity to SARIF level.
func severityToLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityBlock:
		return "error"
	case rules.SeverityWarn:
		return "warning"
	default:
		return "note"
	}
}
