// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestTextPartValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		part    TextPart
		wantErr bool
	}{
		"valid text part": {
			part:    TextPart{Type: PartTypeText, Text: "Hello, World!"},
			wantErr: false,
		},
		"valid with metadata": {
			part: TextPart{
				Type:     PartTypeText,
				Text:     "Hello, World!",
				Metadata: map[string]any{"author": "test"},
			},
			wantErr: false,
		},
		"empty text is allowed": {
			part:    TextPart{Type: PartTypeText, Text: ""},
			wantErr: false,
		},
		"wrong type discriminator": {
			part:    TextPart{Type: "data", Text: "Hello"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.part.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("TextPart.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got := tt.part.PartType(); got != PartTypeText {
				t.Errorf("TextPart.PartType() = %v, want %v", got, PartTypeText)
			}
		})
	}
}

func TestDataPartValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		part    DataPart
		wantErr bool
	}{
		"valid data part": {
			part:    DataPart{Type: PartTypeData, Data: map[string]any{"key": "value"}},
			wantErr: false,
		},
		"nil data": {
			part:    DataPart{Type: PartTypeData},
			wantErr: true,
		},
		"wrong type discriminator": {
			part:    DataPart{Type: PartTypeText, Data: map[string]any{"key": "value"}},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.part.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("DataPart.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFilePartValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		part    FilePart
		wantErr bool
	}{
		"uri reference": {
			part:    FilePart{Type: PartTypeFile, Name: "report.pdf", URI: "https://example.com/report.pdf"},
			wantErr: false,
		},
		"inline bytes": {
			part:    FilePart{Type: PartTypeFile, MimeType: "text/plain", Bytes: "aGVsbG8="},
			wantErr: false,
		},
		"neither uri nor bytes": {
			part:    FilePart{Type: PartTypeFile, Name: "report.pdf"},
			wantErr: true,
		},
		"wrong type discriminator": {
			part:    FilePart{Type: PartTypeData, URI: "https://example.com/report.pdf"},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.part.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("FilePart.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPartWrapperRoundTrip(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		part Part
	}{
		"text part": {
			part: &TextPart{Type: PartTypeText, Text: "Hello, World!"},
		},
		"data part": {
			part: &DataPart{Type: PartTypeData, Data: map[string]any{"topic": "bees"}},
		},
		"file part": {
			part: &FilePart{Type: PartTypeFile, Name: "report.pdf", URI: "https://example.com/report.pdf"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(NewPartWrapper(tt.part))
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var got PartWrapper
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			if diff := cmp.Diff(tt.part, got.Part()); diff != "" {
				t.Errorf("part mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartWrapperUnmarshalUnknownType(t *testing.T) {
	t.Parallel()

	var pw PartWrapper
	if err := json.Unmarshal([]byte(`{"type":"video","uri":"x"}`), &pw); err == nil {
		t.Error("Unmarshal() expected error for unknown part type, got nil")
	}
}

func TestPartWrapperText(t *testing.T) {
	t.Parallel()

	pw := NewPartWrapper(&TextPart{Type: PartTypeText, Text: "hello"})
	if text, ok := pw.Text(); !ok || text != "hello" {
		t.Errorf("Text() = (%q, %v), want (%q, true)", text, ok, "hello")
	}

	pw = NewPartWrapper(&DataPart{Type: PartTypeData, Data: map[string]any{}})
	if _, ok := pw.Text(); ok {
		t.Error("Text() = ok for data part, want false")
	}
}
