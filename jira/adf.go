package jira

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ADFDocument represents an Atlassian Document Format document.
// This is used for rich text fields in Jira Cloud API v3.
type ADFDocument struct {
	Version int       `json:"version"` // Always 1
	Type    string    `json:"type"`    // Always "doc"
	Content []ADFNode `json:"content"`
}

// ADFNode represents a node in an ADF document.
type ADFNode struct {
	Type    string         `json:"type"`
	Content []ADFNode      `json:"content,omitempty"`
	Text    string         `json:"text,omitempty"`
	Marks   []ADFMark      `json:"marks,omitempty"`
	Attrs   map[string]any `json:"attrs,omitempty"`
}

// ADFMark represents formatting applied to text.
type ADFMark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// ADF node types
const (
	ADFNodeDoc         = "doc"
	ADFNodeParagraph   = "paragraph"
	ADFNodeText        = "text"
	ADFNodeHardBreak   = "hardBreak"
	ADFNodeHeading     = "heading"
	ADFNodeBulletList  = "bulletList"
	ADFNodeOrderedList = "orderedList"
	ADFNodeListItem    = "listItem"
	ADFNodeCodeBlock   = "codeBlock"
	ADFNodeBlockquote  = "blockquote"
	ADFNodeRule        = "rule"
	ADFNodeMention     = "mention"
	ADFNodeEmoji       = "emoji"
	ADFNodeInlineCard  = "inlineCard"
)

// NewADFDocument creates a new empty ADF document.
func NewADFDocument() *ADFDocument {
	return &ADFDocument{
		Version: 1,
		Type:    ADFNodeDoc,
		Content: []ADFNode{},
	}
}

// Validate validates the ADF document structure.
func (d *ADFDocument) Validate() error {
	if d.Version != 1 {
		return ErrADFVersionOnly
	}
	if d.Type != ADFNodeDoc {
		return ErrADFTypeInvalid
	}
	return nil
}

// AddParagraph adds a paragraph to the document. Newlines inside text
// become hard breaks.
func (d *ADFDocument) AddParagraph(text string) {
	node := ADFNode{Type: ADFNodeParagraph}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			node.Content = append(node.Content, ADFNode{Type: ADFNodeHardBreak})
		}
		// ADF rejects empty text nodes.
		if line != "" {
			node.Content = append(node.Content, ADFNode{Type: ADFNodeText, Text: line})
		}
	}
	d.Content = append(d.Content, node)
}

// TextDocument builds a document with one paragraph per blank-line
// separated block of text. PlainText reverses it.
func TextDocument(text string) *ADFDocument {
	doc := NewADFDocument()
	if text == "" {
		return doc
	}
	for _, block := range strings.Split(text, "\n\n") {
		doc.AddParagraph(block)
	}
	return doc
}

// PlainText flattens the document to text. Blocks are separated by a
// blank line and formatting marks are dropped.
func (d *ADFDocument) PlainText() string {
	return blocksText(d.Content)
}

func blocksText(nodes []ADFNode) string {
	blocks := make([]string, 0, len(nodes))
	for i := range nodes {
		blocks = append(blocks, blockText(&nodes[i]))
	}
	return strings.Join(blocks, "\n\n")
}

func blockText(node *ADFNode) string {
	switch node.Type {
	case ADFNodeParagraph, ADFNodeHeading, ADFNodeCodeBlock:
		var w strings.Builder
		inlineText(&w, node.Content)
		return w.String()

	case ADFNodeBulletList, ADFNodeOrderedList:
		items := make([]string, 0, len(node.Content))
		for i := range node.Content {
			marker := "- "
			if node.Type == ADFNodeOrderedList {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			items = append(items, marker+blocksText(node.Content[i].Content))
		}
		return strings.Join(items, "\n")

	case ADFNodeRule:
		return "---"

	case ADFNodeText, ADFNodeHardBreak, ADFNodeMention, ADFNodeEmoji, ADFNodeInlineCard:
		var w strings.Builder
		inlineText(&w, []ADFNode{*node})
		return w.String()

	default:
		return blocksText(node.Content)
	}
}

func inlineText(w *strings.Builder, nodes []ADFNode) {
	for i := range nodes {
		node := &nodes[i]
		switch node.Type {
		case ADFNodeText:
			w.WriteString(node.Text)
		case ADFNodeHardBreak:
			w.WriteString("\n")
		case ADFNodeMention:
			if text, ok := node.Attrs["text"].(string); ok {
				w.WriteString(text)
			} else if id, ok := node.Attrs["id"].(string); ok {
				w.WriteString("@" + id)
			}
		case ADFNodeEmoji:
			if shortName, ok := node.Attrs["shortName"].(string); ok {
				w.WriteString(shortName)
			}
		case ADFNodeInlineCard:
			if url, ok := node.Attrs["url"].(string); ok {
				w.WriteString(url)
			}
		default:
			inlineText(w, node.Content)
		}
	}
}

// DescriptionText converts a description field as decoded from JSON into
// text. A nil description yields nil; strings pass through; anything else
// must be an ADF document.
func DescriptionText(v any) (*string, error) {
	switch d := v.(type) {
	case nil:
		return nil, nil
	case string:
		return &d, nil
	case *ADFDocument:
		text := d.PlainText()
		return &text, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal adf: %w", err)
	}

	var doc ADFDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrADFInvalid, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	text := doc.PlainText()
	return &text, nil
}
