// internal/models/models.go
package models

import (
	"strings"
)

// --- Enum Types ---

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParamKind is the primitive type of a single tool parameter.
type ParamKind string

const (
	ParamString  ParamKind = "string"
	ParamNumber  ParamKind = "number"
	ParamInteger ParamKind = "integer"
	ParamBoolean ParamKind = "boolean"
)

// Valid reports whether k is one of the known primitive kinds.
func (k ParamKind) Valid() bool {
	switch k {
	case ParamString, ParamNumber, ParamInteger, ParamBoolean:
		return true
	}
	return false
}

// Part types
const (
	PartTypeText         = "text"
	PartTypeFunctionCall = "functionCall"
)

// ContentTypeText is the only content block kind tools produce today.
const ContentTypeText = "text"

// --- Tool Definition ---

// ParamSpec describes one named parameter of a tool.
type ParamSpec struct {
	Name        string    `json:"name"`
	Kind        ParamKind `json:"kind"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
}

// ToolDefinition is the static description of a tool. It is treated as
// immutable once handed to a registry.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
}

// Param returns the spec for the named parameter.
func (d ToolDefinition) Param(name string) (ParamSpec, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// RequiredParams returns the names of required parameters in declaration order.
func (d ToolDefinition) RequiredParams() []string {
	required := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// --- Tool Invocation ---

// ToolInvocationRequest is a single request to run a tool.
type ToolInvocationRequest struct {
	ToolName  string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ContentBlock is one typed block of tool output.
type ContentBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text"`
}

// ToolInvocationResult is what a tool invocation produces. Failures are
// reported as content with IsError set, never as Go errors.
type ToolInvocationResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// TextResult builds a successful single-block result.
func TextResult(text string) ToolInvocationResult {
	return ToolInvocationResult{Content: []ContentBlock{{Type: ContentTypeText, Text: text}}}
}

// ErrorResult builds a failed single-block result.
func ErrorResult(text string) ToolInvocationResult {
	return ToolInvocationResult{Content: []ContentBlock{{Type: ContentTypeText, Text: text}}, IsError: true}
}

// Text joins the text of all text blocks with newlines.
func (r ToolInvocationResult) Text() string {
	texts := make([]string, 0, len(r.Content))
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// --- Conversation ---

// Part is one fragment of a conversation message.
type Part interface {
	GetType() string
}

// TextPart is a plain text fragment.
type TextPart struct {
	Text string `json:"text"`
}

func (p TextPart) GetType() string { return PartTypeText }

// FunctionCall is the model's request to invoke a tool by name.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

func (c *FunctionCall) GetType() string { return PartTypeFunctionCall }

// Message is a single entry of the conversation history.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTextMessage builds a message with a single text part.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{TextPart{Text: text}}}
}

// Text concatenates the text parts of the message.
func (m Message) Text() string {
	var sb strings.Builder
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}
