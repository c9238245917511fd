package bycss

import (
	"encoding/json"

	"github.com/panbanda/selectorlint/pkg/selector"
)

// Meta describes the rule for listings and editor integrations.
type Meta struct {
	Name        string            `json:"name" toon:"name"`
	Type        string            `json:"type" toon:"type"`
	Description string            `json:"description" toon:"description"`
	Messages    map[string]string `json:"messages" toon:"messages"`
	Schema      json.RawMessage   `json:"schema" toon:"-"`
}

// Metadata returns the rule's metadata, including its options schema.
func Metadata() Meta {
	messages := make(map[string]string, len(selector.Kinds))
	for _, k := range selector.Kinds {
		messages[string(k)] = k.Message()
	}
	return Meta{
		Name:        RuleName,
		Type:        RuleType,
		Description: RuleDescription,
		Messages:    messages,
		Schema:      json.RawMessage(selector.OptionsSchema),
	}
}
