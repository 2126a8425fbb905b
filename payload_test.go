// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeRequest(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data       string
		wantMethod string
		wantErr    bool
	}{
		"valid request": {
			data:       `{"jsonrpc":"2.0","id":"1","method":"tasks/send","params":{"id":"t-1"}}`,
			wantMethod: MethodTasksSend,
		},
		"numeric id": {
			data:       `{"jsonrpc":"2.0","id":42,"method":"tasks/get","params":{"id":"t-1"}}`,
			wantMethod: MethodTasksGet,
		},
		"wrong version": {
			data:    `{"jsonrpc":"1.0","id":"1","method":"tasks/send"}`,
			wantErr: true,
		},
		"missing method": {
			data:    `{"jsonrpc":"2.0","id":"1"}`,
			wantErr: true,
		},
		"malformed json": {
			data:    `{"jsonrpc":`,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req, err := DecodeRequest([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if req.Method != tt.wantMethod {
				t.Errorf("DecodeRequest() method = %q, want %q", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestDecodeParams(t *testing.T) {
	t.Parallel()

	req, err := DecodeRequest([]byte(`{
		"jsonrpc": "2.0",
		"id": "1",
		"method": "tasks/send",
		"params": {
			"id": "t-1",
			"sessionId": "s-1",
			"message": {"role": "user", "parts": [{"type": "text", "text": "hi"}]},
			"acceptedOutputModes": ["text"],
			"historyLength": 3
		}
	}`))
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}

	params, err := DecodeParams[TaskSendParams](req)
	if err != nil {
		t.Fatalf("DecodeParams() error = %v", err)
	}

	if params.ID != "t-1" || params.SessionID != "s-1" || params.HistoryLength != 3 {
		t.Errorf("DecodeParams() = %+v, want id t-1, session s-1, historyLength 3", params)
	}
	if diff := cmp.Diff([]string{"text"}, params.AcceptedOutputModes); diff != "" {
		t.Errorf("accepted output modes mismatch (-want +got):\n%s", diff)
	}
	text, ok := params.Message.Parts[0].Text()
	if !ok || text != "hi" {
		t.Errorf("message text = (%q, %v), want (%q, true)", text, ok, "hi")
	}
}

func TestDecodeParamsMissing(t *testing.T) {
	t.Parallel()

	req := &JSONRPCRequest{
		JSONRPCMessage: NewJSONRPCMessage(NewID("1")),
		Method:         MethodTasksGet,
	}
	if _, err := DecodeParams[TaskQueryParams](req); err == nil {
		t.Error("DecodeParams() expected error for missing params, got nil")
	}
}

func TestEncodeResponse(t *testing.T) {
	t.Parallel()

	resp := NewErrorResponse(NewID("7"), ErrTaskNotFound)
	data, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("EncodeResponse() error = %v", err)
	}

	var decoded struct {
		JSONRPC string `json:"jsonrpc"`
		ID      string `json:"id"`
		Error   struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := sonic.ConfigDefault.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded.JSONRPC != "2.0" || decoded.ID != "7" {
		t.Errorf("envelope = %+v, want jsonrpc 2.0 and id 7", decoded)
	}
	if decoded.Error.Code != CodeTaskNotFound {
		t.Errorf("error code = %d, want %d", decoded.Error.Code, CodeTaskNotFound)
	}
}

func TestNewSendTaskRequest(t *testing.T) {
	t.Parallel()

	req := NewSendTaskRequest(NewID("1"), TaskSendParams{ID: "t-1"})
	if req.Method != MethodTasksSend {
		t.Errorf("method = %q, want %q", req.Method, MethodTasksSend)
	}
	if req.JSONRPC != "2.0" {
		t.Errorf("jsonrpc = %q, want 2.0", req.JSONRPC)
	}
}
