// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Part type discriminators.
const (
	PartTypeText = "text"
	PartTypeData = "data"
	PartTypeFile = "file"
)

// Part is one segment of a message or artifact payload. It is a tagged
// variant discriminated by its type field; the core only interprets text
// parts, other variants pass through opaquely.
type Part interface {
	PartType() string
	Validate() error
}

// TextPart is a plain text segment.
type TextPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartType returns the part type discriminator.
func (p *TextPart) PartType() string { return PartTypeText }

// Validate ensures the TextPart is valid.
func (p *TextPart) Validate() error {
	if p.Type != PartTypeText {
		return fmt.Errorf("text part type must be %q, got %q", PartTypeText, p.Type)
	}
	return nil
}

// DataPart is a structured data segment.
type DataPart struct {
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartType returns the part type discriminator.
func (p *DataPart) PartType() string { return PartTypeData }

// Validate ensures the DataPart is valid.
func (p *DataPart) Validate() error {
	if p.Type != PartTypeData {
		return fmt.Errorf("data part type must be %q, got %q", PartTypeData, p.Type)
	}
	if p.Data == nil {
		return fmt.Errorf("data part data cannot be nil")
	}
	return nil
}

// FilePart is a file reference segment.
type FilePart struct {
	Type     string         `json:"type"`
	Name     string         `json:"name,omitzero"`
	MimeType string         `json:"mimeType,omitzero"`
	URI      string         `json:"uri,omitzero"`
	Bytes    string         `json:"bytes,omitzero"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// PartType returns the part type discriminator.
func (p *FilePart) PartType() string { return PartTypeFile }

// Validate ensures the FilePart is valid.
func (p *FilePart) Validate() error {
	if p.Type != PartTypeFile {
		return fmt.Errorf("file part type must be %q, got %q", PartTypeFile, p.Type)
	}
	if p.URI == "" && p.Bytes == "" {
		return fmt.Errorf("file part must carry a uri or inline bytes")
	}
	return nil
}

// PartWrapper wraps a Part so the tagged variant survives JSON round trips.
type PartWrapper struct {
	part Part
}

// NewPartWrapper creates a new PartWrapper.
func NewPartWrapper(part Part) *PartWrapper {
	return &PartWrapper{part: part}
}

// Part returns the wrapped part.
func (pw *PartWrapper) Part() Part {
	return pw.part
}

// Text returns the text of the wrapped part and true when it is a TextPart.
func (pw *PartWrapper) Text() (string, bool) {
	tp, ok := pw.part.(*TextPart)
	if !ok {
		return "", false
	}
	return tp.Text, true
}

// MarshalJSON implements custom JSON marshaling for PartWrapper.
func (pw PartWrapper) MarshalJSON() ([]byte, error) {
	if pw.part == nil {
		return nil, fmt.Errorf("cannot marshal nil part")
	}
	return json.Marshal(pw.part)
}

// UnmarshalJSON implements custom JSON unmarshaling for PartWrapper,
// dispatching on the type discriminator.
func (pw *PartWrapper) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal part type: %w", err)
	}

	switch tag.Type {
	case PartTypeText:
		var tp TextPart
		if err := json.Unmarshal(data, &tp); err != nil {
			return fmt.Errorf("failed to unmarshal text part: %w", err)
		}
		pw.part = &tp
	case PartTypeData:
		var dp DataPart
		if err := json.Unmarshal(data, &dp); err != nil {
			return fmt.Errorf("failed to unmarshal data part: %w", err)
		}
		pw.part = &dp
	case PartTypeFile:
		var fp FilePart
		if err := json.Unmarshal(data, &fp); err != nil {
			return fmt.Errorf("failed to unmarshal file part: %w", err)
		}
		pw.part = &fp
	default:
		return fmt.Errorf("unknown part type: %q", tag.Type)
	}

	return nil
}

// Validate validates the wrapped part.
func (pw *PartWrapper) Validate() error {
	if pw.part == nil {
		return fmt.Errorf("part wrapper cannot contain nil part")
	}
	return pw.part.Validate()
}
