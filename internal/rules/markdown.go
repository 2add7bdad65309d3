package rules

import (
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// ruleFenceInfo is the fence language tag that marks an embedded rule
// definition inside a markdown rulebook:
//
//	```gavel-rule
//	id: sec-sql-concat
//	category: security
//	...
//	```
const ruleFenceInfo = "gavel-rule"

// ExtractMarkdownRules walks a markdown document and parses every
// gavel-rule fenced code block as a YAML rule definition. Prose around the
// blocks is ignored, so human-readable rulebooks double as rule packs.
func ExtractMarkdownRules(doc []byte) ([]Rule, error) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(doc))

	var rules []Rule
	var walkErr error
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fence, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if string(fence.Language(doc)) != ruleFenceInfo {
			return ast.WalkContinue, nil
		}

		var body []byte
		lines := fence.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body = append(body, seg.Value(doc)...)
		}

		var rule Rule
		if err := yaml.Unmarshal(body, &rule); err != nil {
			walkErr = fmt.Errorf("rule block %d: %w", len(rules)+1, err)
			return ast.WalkStop, nil
		}
		rules = append(rules, rule)
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return rules, nil
}
