package report

import (
	"encoding/json"
	"sort"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/snapshot"
)

const sarifVersion = "2.1.0"
const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
const toolName = "archlint"
const toolVersion = "0.1.0"

// SarifLog is the root of a SARIF v2.1.0 log file.
type SarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool    SarifTool      `json:"tool"`
	Results []SarifResult  `json:"results"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name            string      `json:"name"`
	Version         string      `json:"version"`
	InformationURI  string      `json:"informationUri,omitempty"`
	Rules           []SarifRule `json:"rules"`
}

type SarifRule struct {
	ID               string                `json:"id"`
	ShortDescription SarifMessage          `json:"shortDescription"`
	HelpURI          string                `json:"helpUri,omitempty"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   SarifMessage     `json:"message"`
	Locations []SarifLocation  `json:"locations"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           *SarifRegion          `json:"region,omitempty"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine   int  `json:"startLine"`
	StartColumn *int `json:"startColumn,omitempty"`
}

// SARIF renders snap as a SARIF v2.1.0 log, the shape GitHub code scanning
// and other CI annotators consume. Grounded on the original report/sarif.rs's
// SarifLog/SarifRun/SarifTool/SarifDriver/SarifRule/SarifResult structures.
func SARIF(snap snapshot.Snapshot) ([]byte, error) {
	rules := ruleSet(snap.Smells)
	results := make([]SarifResult, 0, len(snap.Smells))
	for _, s := range snap.Smells {
		results = append(results, sarifResultFor(s))
	}

	log := SarifLog{
		Version: sarifVersion,
		Schema:  sarifSchema,
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:    toolName,
						Version: toolVersion,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}
	return json.MarshalIndent(log, "", "  ")
}

func ruleSet(smells []snapshot.Smell) []SarifRule {
	seen := map[string]bool{}
	var rules []SarifRule
	for _, s := range smells {
		id := string(s.Type)
		if seen[id] {
			continue
		}
		seen[id] = true
		exp := explanationFor(s)
		rules = append(rules, SarifRule{
			ID:               id,
			ShortDescription: SarifMessage{Text: exp.Problem},
		})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

func sarifResultFor(s snapshot.Smell) SarifResult {
	exp := explanationFor(s)
	var locs []SarifLocation
	if len(s.Locations) > 0 {
		for _, l := range s.Locations {
			locs = append(locs, sarifLocationFor(l))
		}
	} else {
		for _, f := range s.Files {
			locs = append(locs, sarifLocationFor(snapshot.Location{File: f}))
		}
	}
	return SarifResult{
		RuleID:    string(s.Type),
		Level:     sarifLevel(s.Severity),
		Message:   SarifMessage{Text: exp.Reason},
		Locations: locs,
	}
}

func sarifLocationFor(l snapshot.Location) SarifLocation {
	loc := SarifLocation{
		PhysicalLocation: SarifPhysicalLocation{
			ArtifactLocation: SarifArtifactLocation{URI: l.File},
		},
	}
	if l.Line > 0 {
		loc.PhysicalLocation.Region = &SarifRegion{StartLine: l.Line, StartColumn: l.Column}
	}
	return loc
}

// sarifLevel maps a Severity onto SARIF's note/warning/error scale, folding
// our four-level scale down to SARIF's three.
func sarifLevel(s archmodel.Severity) string {
	switch s {
	case archmodel.SeverityCritical, archmodel.SeverityHigh:
		return "error"
	case archmodel.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
