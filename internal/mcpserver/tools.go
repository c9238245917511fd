package mcpserver

import (
	"bytes"
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/selectorlint/internal/output"
	"github.com/panbanda/selectorlint/internal/service/lint"
	"github.com/panbanda/selectorlint/pkg/analyzer/bycss"
	"github.com/panbanda/selectorlint/pkg/config"
)

// PolicyInput overrides the configured rule options for one call.
type PolicyInput struct {
	AllowIDs        *bool `json:"allow_ids,omitempty" jsonschema:"Allow single ID selectors such as #login. Defaults to the project config (false)."`
	AllowTags       *bool `json:"allow_tags,omitempty" jsonschema:"Allow bare tag selectors such as div. Defaults to the project config (false)."`
	DisallowClasses *bool `json:"disallow_classes,omitempty" jsonschema:"Report class selectors. Defaults to the project config (true)."`
}

// overrides maps the set fields onto rule option keys.
func (p PolicyInput) overrides() map[string]any {
	out := make(map[string]any, 3)
	if p.AllowIDs != nil {
		out["allowIds"] = *p.AllowIDs
	}
	if p.AllowTags != nil {
		out["allowTags"] = *p.AllowTags
	}
	if p.DisallowClasses != nil {
		out["disallowClasses"] = *p.DisallowClasses
	}
	return out
}

// CheckInput is the input for check_selectors.
type CheckInput struct {
	PolicyInput
	Paths   []string `json:"paths,omitempty" jsonschema:"Files or directories to check. Defaults to current directory if empty."`
	Format  string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
	Changed bool     `json:"changed,omitempty" jsonschema:"Only check files changed in the git worktree, including untracked files."`
	Ref     string   `json:"ref,omitempty" jsonschema:"Check files as they are at this git revision (branch, tag or commit)."`
}

// SourceInput is the input for check_source.
type SourceInput struct {
	PolicyInput
	Path    string `json:"path" jsonschema:"File name used to pick the grammar, e.g. login.spec.ts."`
	Content string `json:"content" jsonschema:"Source code to check."`
	Format  string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// RulesInput is the input for list_rules.
type RulesInput struct {
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

func getPaths(input CheckInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(format string) output.Format {
	switch output.ParseFormat(format) {
	case output.FormatJSON:
		return output.FormatJSON
	case output.FormatMarkdown:
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

// formatOutput renders data with the same formatter the CLI uses.
func formatOutput(data any, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(format, &buf, false).Output(data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(data any, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// service builds a lint service for one call, applying the policy overrides.
func (s *Server) service(policy PolicyInput) (*lint.Service, error) {
	result, err := config.LoadConfig(
		config.WithPath(s.configPath),
		config.WithPolicyOverrides(policy.overrides()),
	)
	if err != nil {
		return nil, err
	}
	return lint.New(lint.WithConfig(result.Config))
}

// Tool handlers

func (s *Server) handleCheckSelectors(ctx context.Context, req *mcp.CallToolRequest, input CheckInput) (*mcp.CallToolResult, any, error) {
	svc, err := s.service(input.PolicyInput)
	if err != nil {
		return toolError(err.Error())
	}

	opts := lint.CheckOptions{Changed: input.Changed, Ref: input.Ref}
	target, err := svc.Resolve(getPaths(input), opts)
	if err != nil {
		return toolError(err.Error())
	}
	if len(target.Files) == 0 && !input.Changed {
		return toolError("no JavaScript or TypeScript files found")
	}

	result, err := svc.CheckFiles(ctx, target.Files, target.Source, nil)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewDiagnosticsReport(result), getFormat(input.Format))
}

func (s *Server) handleCheckSource(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}
	svc, err := s.service(input.PolicyInput)
	if err != nil {
		return toolError(err.Error())
	}

	diags, err := svc.CheckSource(input.Path, []byte(input.Content))
	if err != nil {
		return toolError(err.Error())
	}

	summary := bycss.NewSummary()
	for _, d := range diags {
		summary.AddDiagnostic(d)
	}
	summary.FilesAnalyzed = 1
	if diags == nil {
		diags = []bycss.Diagnostic{}
	}
	return toolResult(output.NewDiagnosticsReport(&bycss.Analysis{
		Diagnostics: diags,
		Summary:     summary,
	}), getFormat(input.Format))
}

func (s *Server) handleListRules(ctx context.Context, req *mcp.CallToolRequest, input RulesInput) (*mcp.CallToolResult, any, error) {
	format := getFormat(input.Format)
	meta := bycss.Metadata()
	if format == output.FormatTOON {
		// TOON has no raw JSON type; carry the schema as text.
		return toolResult(ruleInfo{
			Name:        meta.Name,
			Type:        meta.Type,
			Description: meta.Description,
			Messages:    meta.Messages,
			Schema:      string(meta.Schema),
		}, format)
	}
	return toolResult(meta, format)
}

type ruleInfo struct {
	Name        string            `toon:"name"`
	Type        string            `toon:"type"`
	Description string            `toon:"description"`
	Messages    map[string]string `toon:"messages"`
	Schema      string            `toon:"schema"`
}
