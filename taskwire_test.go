// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import (
	"testing"
)

func TestTaskStateTerminal(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		state TaskState
		want  bool
	}{
		"submitted": {state: TaskStateSubmitted, want: false},
		"working":   {state: TaskStateWorking, want: false},
		"completed": {state: TaskStateCompleted, want: true},
		"failed":    {state: TaskStateFailed, want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tt.state.Terminal(); got != tt.want {
				t.Errorf("TaskState(%q).Terminal() = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message *Message
		wantErr bool
	}{
		"valid user message": {
			message: NewTextMessage(RoleUser, "what is the weather"),
			wantErr: false,
		},
		"valid agent message": {
			message: NewTextMessage(RoleAgent, "working on it"),
			wantErr: false,
		},
		"invalid role": {
			message: NewTextMessage("system", "nope"),
			wantErr: true,
		},
		"no parts": {
			message: &Message{Role: RoleUser},
			wantErr: true,
		},
		"nil part": {
			message: &Message{Role: RoleUser, Parts: []*PartWrapper{nil}},
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.message.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Message.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArtifactValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		artifact *Artifact
		wantErr  bool
	}{
		"complete text artifact": {
			artifact: NewTextArtifact("Report: done"),
			wantErr:  false,
		},
		"append chunk": {
			artifact: &Artifact{
				Parts:  []*PartWrapper{NewPartWrapper(&TextPart{Type: PartTypeText, Text: "more"})},
				Index:  0,
				Append: true,
			},
			wantErr: false,
		},
		"negative index": {
			artifact: &Artifact{
				Parts: []*PartWrapper{NewPartWrapper(&TextPart{Type: PartTypeText, Text: "x"})},
				Index: -1,
			},
			wantErr: true,
		},
		"no parts": {
			artifact: &Artifact{Index: 0},
			wantErr:  true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tt.artifact.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Artifact.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTextArtifact(t *testing.T) {
	t.Parallel()

	artifact := NewTextArtifact("Report: bees matter")
	if artifact.Index != 0 || artifact.Append {
		t.Errorf("NewTextArtifact() Index = %d, Append = %v; want complete final artifact", artifact.Index, artifact.Append)
	}
	text, ok := artifact.Parts[0].Text()
	if !ok || text != "Report: bees matter" {
		t.Errorf("artifact text = (%q, %v), want (%q, true)", text, ok, "Report: bees matter")
	}
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	a, b := GenerateID(), GenerateID()
	if a == "" || b == "" {
		t.Fatal("GenerateID() returned empty id")
	}
	if a == b {
		t.Errorf("GenerateID() returned duplicate id %q", a)
	}
}
