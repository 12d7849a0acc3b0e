package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranscribeSendsMultipartRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotModel, gotFormat, gotLanguage, gotFileName string
	var gotFileData []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		gotLanguage = r.FormValue("language")

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			gotFileName = header.Filename
			gotFileData, _ = io.ReadAll(file)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "olá, tudo bem"})
	}))
	defer server.Close()

	audio := filepath.Join(t.TempDir(), "parte_000.wav")
	if err := os.WriteFile(audio, []byte("RIFF-data"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	client := NewClient(Config{
		APIKey:       "sk-test",
		BaseURL:      server.URL,
		WhisperModel: "whisper-1",
		Language:     "pt",
	})

	text, err := client.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "olá, tudo bem" {
		t.Fatalf("text = %q", text)
	}

	if gotPath != "/audio/transcriptions" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if gotModel != "whisper-1" || gotFormat != "json" || gotLanguage != "pt" {
		t.Fatalf("fields = %q/%q/%q", gotModel, gotFormat, gotLanguage)
	}
	if gotFileName != "parte_000.wav" || string(gotFileData) != "RIFF-data" {
		t.Fatalf("file = %q (%q)", gotFileName, gotFileData)
	}
}

func TestTranscribeProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit"}}`))
	}))
	defer server.Close()

	audio := filepath.Join(t.TempDir(), "a.wav")
	os.WriteFile(audio, []byte("x"), 0o644)

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})
	_, err := client.Transcribe(context.Background(), audio)
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "openai http 429") || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("err = %v", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	client := NewClient(Config{APIKey: "sk-test", BaseURL: "http://unused.invalid"})
	if _, err := client.Transcribe(context.Background(), "/nonexistent/a.wav"); !os.IsNotExist(err) {
		t.Fatalf("err = %v", err)
	}
}

func TestChatCompletionFirstChoice(t *testing.T) {
	var gotBody ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"  resposta  "}},{"message":{"content":"descartada"}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL + "/"})
	out, err := client.ChatCompletion(context.Background(), ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []Message{{Role: "user", Content: "oi"}},
		Temperature: 0.2,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if out != "resposta" {
		t.Fatalf("out = %q, want first choice trimmed", out)
	}
	if gotBody.Model != "gpt-4o-mini" || gotBody.MaxTokens != 100 || len(gotBody.Messages) != 1 {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL})
	out, err := client.ChatCompletion(context.Background(), ChatRequest{Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if out != "" {
		t.Fatalf("out = %q, want empty for the caller's fallback", out)
	}
}
