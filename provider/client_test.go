package provider_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tessa/model"
	"tessa/provider"
	"tessa/provider/testutil"
)

func chatRequest(text string) model.Request {
	return model.Request{
		Kind:  model.KindChat,
		Shape: model.ShapeChat,
		Chat: &model.ChatPayload{
			System:   "preamble",
			Messages: []model.ChatTurn{{Role: model.RoleUser, Content: text}},
		},
		Params: model.Params{MaxTokens: 1024, Temperature: 0.7},
	}
}

func TestClientSendMissingCredential(t *testing.T) {
	mock := testutil.NewMockProvider("gpt-3.5-turbo")
	client, built := testutil.NewMockClient(mock)

	ep := model.Endpoint{LogicalID: "gpt-3.5-turbo", DisplayName: "gpt-3.5-turbo", Shape: model.ShapeChat, Provider: "openai"}
	_, err := client.Send(context.Background(), chatRequest("hi"), ep)

	var ce *model.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if mock.CallCount() != 0 {
		t.Errorf("expected no calls, got %d", mock.CallCount())
	}
	if *built != 0 {
		t.Errorf("expected no provider to be constructed, got %d", *built)
	}
}

func TestClientSendOllamaNeedsNoCredential(t *testing.T) {
	mock := testutil.NewMockProvider("qwen").Reply("ok")
	client, _ := testutil.NewMockClient(mock)

	ep := model.Endpoint{LogicalID: "qwen", Shape: model.ShapeChat, Provider: "ollama"}
	text, err := client.Send(context.Background(), chatRequest("hi"), ep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q, want ok", text)
	}
}

func TestClientSendShapeDispatch(t *testing.T) {
	tests := []struct {
		name        string
		req         model.Request
		epShape     model.Shape
		wantErr     bool
		wantChat    int
		wantComplet int
	}{
		{
			name:     "chat to chat endpoint",
			req:      chatRequest("hi"),
			epShape:  model.ShapeChat,
			wantChat: 1,
		},
		{
			name: "completion to completion endpoint",
			req: model.Request{
				Kind:       model.KindInline,
				Shape:      model.ShapeCompletion,
				Completion: &model.CompletionPayload{Prompt: "func main() {"},
			},
			epShape:     model.ShapeCompletion,
			wantComplet: 1,
		},
		{
			name:    "chat to completion endpoint",
			req:     chatRequest("hi"),
			epShape: model.ShapeCompletion,
			wantErr: true,
		},
		{
			name:    "malformed request",
			req:     model.Request{Kind: model.KindChat, Shape: model.ShapeChat},
			epShape: model.ShapeChat,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockProvider("m")
			client, _ := testutil.NewMockClient(mock)
			ep := model.Endpoint{LogicalID: "m", APIKey: "k", Shape: tt.epShape, Provider: "openai"}

			_, err := client.Send(context.Background(), tt.req, ep)
			if tt.wantErr {
				var ce *model.ConfigError
				if !errors.As(err, &ce) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(mock.ChatCalls) != tt.wantChat {
				t.Errorf("chat calls = %d, want %d", len(mock.ChatCalls), tt.wantChat)
			}
			if len(mock.CompletionCalls) != tt.wantComplet {
				t.Errorf("completion calls = %d, want %d", len(mock.CompletionCalls), tt.wantComplet)
			}
		})
	}
}

func TestClientSendEmptyResponse(t *testing.T) {
	mock := testutil.NewMockProvider("m").Reply("  \n ")
	client, _ := testutil.NewMockClient(mock)
	ep := model.Endpoint{LogicalID: "m", APIKey: "k", Shape: model.ShapeChat, Provider: "openai"}

	req := chatRequest("hi")
	req.Kind = model.KindUpdateFile
	_, err := client.Send(context.Background(), req, ep)

	var ee *model.EmptyResponseError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EmptyResponseError, got %v", err)
	}
	if ee.UserMessage() != "AI could not generate an update for the file." {
		t.Errorf("unexpected message %q", ee.UserMessage())
	}
}

func TestClientReusesProviders(t *testing.T) {
	mock := testutil.NewMockProvider("m")
	client, built := testutil.NewMockClient(mock)
	ep := model.Endpoint{LogicalID: "m", APIKey: "k", Shape: model.ShapeChat, Provider: "openai"}

	for i := 0; i < 3; i++ {
		if _, err := client.Send(context.Background(), chatRequest("hi"), ep); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if *built != 1 {
		t.Errorf("provider built %d times, want 1", *built)
	}
}

func TestClientSendOpenAIHTTP(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantText   string
		wantAuth   bool
		wantStatus int
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"hello there"}}]}`,
			wantText: "hello there",
		},
		{
			name:       "unauthorized",
			status:     http.StatusUnauthorized,
			body:       `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","param":null,"code":"invalid_api_key"}}`,
			wantAuth:   true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "server error",
			status:     http.StatusInternalServerError,
			body:       `{"error":{"message":"upstream exploded","type":"server_error","param":null,"code":null}}`,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requests int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
					t.Errorf("Authorization = %q", got)
				}
				body, _ := io.ReadAll(r.Body)
				if !strings.Contains(string(body), `"max_tokens":1024`) {
					t.Errorf("request body missing max_tokens: %s", body)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			ep := model.Endpoint{LogicalID: "m", BaseURL: srv.URL, APIKey: "sk-test", Shape: model.ShapeChat, Provider: "openai"}
			text, err := provider.NewClient().Send(context.Background(), chatRequest("hi"), ep)

			if requests != 1 {
				t.Errorf("server saw %d requests, want exactly 1", requests)
			}
			if tt.wantText != "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if text != tt.wantText {
					t.Errorf("text = %q, want %q", text, tt.wantText)
				}
				return
			}

			var te *model.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.Auth != tt.wantAuth {
				t.Errorf("Auth = %v, want %v", te.Auth, tt.wantAuth)
			}
			if te.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", te.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClientSendOpenAICompletionHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/completions") || strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"prompt":"x = "`) {
			t.Errorf("prompt not sent as a string: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"c1","object":"text_completion","created":1,"model":"m","choices":[{"index":0,"finish_reason":"stop","logprobs":null,"text":"42"}]}`)
	}))
	defer srv.Close()

	ep := model.Endpoint{LogicalID: "m", BaseURL: srv.URL, APIKey: "k", Shape: model.ShapeCompletion, Provider: "openai"}
	req := model.Request{
		Kind:       model.KindInline,
		Shape:      model.ShapeCompletion,
		Completion: &model.CompletionPayload{Prompt: "x = "},
		Params:     model.Params{MaxTokens: 60, Temperature: 0.3, Stop: []string{"\n", "```"}},
	}

	text, err := provider.NewClient().Send(context.Background(), req, ep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "42" {
		t.Errorf("text = %q, want 42", text)
	}
}

func TestClientSendOllamaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"model":"qwen","message":{"role":"assistant","content":"local answer"},"done":true}`)
		case "/api/generate":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"model \"qwen\" not found"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := provider.NewClient()

	chatEp := model.Endpoint{LogicalID: "qwen", BaseURL: srv.URL, Shape: model.ShapeChat, Provider: "ollama"}
	text, err := client.Send(context.Background(), chatRequest("hi"), chatEp)
	if err != nil {
		t.Fatalf("chat: unexpected error: %v", err)
	}
	if text != "local answer" {
		t.Errorf("text = %q", text)
	}

	genEp := chatEp
	genEp.Shape = model.ShapeCompletion
	_, err = client.Send(context.Background(), model.Request{
		Kind:       model.KindInline,
		Shape:      model.ShapeCompletion,
		Completion: &model.CompletionPayload{Prompt: "x"},
	}, genEp)

	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("generate: expected TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusNotFound || te.Auth {
		t.Errorf("unexpected classification: %+v", te)
	}
	if !strings.Contains(te.Message, "not found") {
		t.Errorf("provider message lost: %q", te.Message)
	}
}
