package parse

import (
	"strings"

	"github.com/go-go-golems/glazed/pkg/helpers/json"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type Header struct {
	Text  string
	Level int
}

type CodeBlock struct {
	Code     string
	Language string
}

type Paragraph struct {
	Text string
}

type List struct {
	Entries []string
}

type QuotedText struct {
	Text string
}

type Link struct {
	Destination []byte
	Title       []byte
}

type Image struct {
	Destination []byte
	Title       []byte
}

// ExtractContentFromMarkdown parses markdown and returns the block and inline
// elements in document order, as a heterogeneous list of the types above.
func ExtractContentFromMarkdown(markdownText string) ([]interface{}, error) {
	var content []interface{}
	source := []byte(markdownText)

	document := goldmark.DefaultParser().Parse(
		text.NewReader(source),
	)

	err := ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			switch v := n.(type) {
			case *ast.Heading:
				content = append(content, Header{
					Text:  string(v.Text(source)),
					Level: v.Level,
				})
			case *ast.FencedCodeBlock:
				content = append(content, CodeBlock{
					Code:     codeBlockText(v, source),
					Language: string(v.Language(source)),
				})
			case *ast.Paragraph:
				content = append(content, Paragraph{
					Text: string(v.Text(source)),
				})
			case *ast.List:
				var list List
				cur := v.FirstChild()
				for cur != nil {
					text_ := cur.Text(source)
					cur = cur.NextSibling()
					list.Entries = append(list.Entries, string(text_))
				}
				content = append(content, list)
			case *ast.Blockquote:
				content = append(content, QuotedText{
					Text: string(v.Text(source)),
				})
			case *ast.Link:
				content = append(content, Link{
					Destination: v.Destination,
					Title:       v.Title,
				})
			case *ast.Image:
				content = append(content, Image{
					Destination: v.Destination,
					Title:       v.Title,
				})
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return content, nil
}

// ExtractCodeBlocks scans a markdown string and returns the contents of fenced
// code blocks, without the enclosing fences. When languages are given, only
// blocks tagged with one of them (case-insensitive) are returned.
func ExtractCodeBlocks(markdownText string, languages ...string) ([]string, error) {
	wanted := map[string]bool{}
	for _, language := range languages {
		wanted[strings.ToLower(language)] = true
	}

	var results []string
	source := []byte(markdownText)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if cb, ok := n.(*ast.FencedCodeBlock); ok {
			lang := strings.ToLower(string(cb.Language(source)))
			if len(wanted) > 0 && !wanted[lang] {
				return ast.WalkContinue, nil
			}
			if cb.Lines().Len() > 0 {
				results = append(results, codeBlockText(cb, source))
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ExtractYAMLBlocks returns the contents of fenced YAML/YML code blocks.
func ExtractYAMLBlocks(markdownText string) ([]string, error) {
	return ExtractCodeBlocks(markdownText, "yaml", "yml")
}

// ExtractJSONBlocks returns the balanced JSON objects found in the input,
// fenced or not.
func ExtractJSONBlocks(input string) []string {
	return json.ExtractJSON(input)
}

func codeBlockText(cb *ast.FencedCodeBlock, source []byte) string {
	lines := cb.Lines()
	if lines.Len() == 0 {
		return ""
	}
	start := lines.At(0).Start
	stop := lines.At(lines.Len() - 1).Stop
	return string(source[start:stop])
}
