package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
	"github.com/panbanda/selectorlint/pkg/config"
	"github.com/panbanda/selectorlint/pkg/selector"
)

func rulesCmd() *cli.Command {
	return &cli.Command{
		Name:   "rules",
		Usage:  "Describe the rule, its messages and options",
		Action: runRulesCmd,
	}
}

// ruleData is the machine-readable rule description.
type ruleData struct {
	Name        string            `json:"name" toon:"name"`
	Type        string            `json:"type" toon:"type"`
	Description string            `json:"description" toon:"description"`
	Messages    map[string]string `json:"messages" toon:"messages"`
	Defaults    selector.Policy   `json:"defaults" toon:"defaults"`
	Schema      map[string]any    `json:"schema" toon:"schema"`
}

// rulesReport builds the renderable rule description.
func rulesReport() (*output.Report, error) {
	meta := bycss.Metadata()

	var schema map[string]any
	if err := json.Unmarshal(meta.Schema, &schema); err != nil {
		return nil, fmt.Errorf("decoding options schema: %w", err)
	}

	kinds := make([]string, 0, len(meta.Messages))
	for k := range meta.Messages {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	rows := make([][]string, 0, len(kinds))
	for _, k := range kinds {
		rows = append(rows, []string{k, meta.Messages[k]})
	}

	defaults := selector.DefaultPolicy()
	options := [][]string{
		{"allowIds", fmt.Sprint(defaults.AllowIDs), "Allow single ID selectors such as #login"},
		{"allowTags", fmt.Sprint(defaults.AllowTags), "Allow bare tag selectors such as div"},
		{"disallowClasses", fmt.Sprint(defaults.DisallowClasses), "Report selectors that contain a class"},
	}

	return &output.Report{
		Title: meta.Name,
		Sections: []output.Renderable{
			&output.Section{
				Content: fmt.Sprintf("%s (%s)", meta.Description, meta.Type),
			},
			output.NewTable("Messages", []string{"Message ID", "Message"}, rows, nil, nil),
			output.NewTable("Options", []string{"Option", "Default", "Description"}, options, nil, nil),
		},
		Data: ruleData{
			Name:        meta.Name,
			Type:        meta.Type,
			Description: meta.Description,
			Messages:    meta.Messages,
			Defaults:    defaults,
			Schema:      schema,
		},
	}, nil
}

func runRulesCmd(c *cli.Context) error {
	report, err := rulesReport()
	if err != nil {
		return err
	}
	formatter, err := newFormatter(c, config.DefaultConfig())
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(report)
}
