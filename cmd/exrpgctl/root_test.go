package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mythicalprogrammer/exRPG/internal/config"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out, _, err := runSplit(t, stdin, args...)
	return out, err
}

// runSplit keeps stdout and stderr apart so logs never mix into command output.
func runSplit(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestExtractCmd_JSON(t *testing.T) {
	out, err := run(t, `Sure! {"exercises":[{"name":"Lunges","sets":3,"reps":"10","bodyPart":"Legs"}],"notes":"ok"} Bye`, "extract")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var got extractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Source != "model" || got.Plan.Notes != "ok" || got.Plan.Exercises[0].Name != "Lunges" {
		t.Fatalf("unexpected output: %+v", got)
	}
}

func TestExtractCmd_YAMLFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(p, []byte("I cannot produce that."), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "", "extract", "-o", "yaml", p)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	var got extractOutput
	if err := yaml.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if got.Source != "fallback-extraction" || !strings.Contains(got.Error, "No JSON found") {
		t.Fatalf("unexpected output: %+v", got)
	}
	if got.Plan.Exercises[0].Name != "Jumping Jacks" {
		t.Fatalf("unexpected plan: %+v", got.Plan)
	}
}

func TestExtractCmd_DebugLogging(t *testing.T) {
	out, logs, err := runSplit(t, `{"exercises":[{"name":"Lunges","sets":3,"reps":"10","bodyPart":"Legs"}]}`, "--debug", "extract")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(logs, "msg=extracted") || !strings.Contains(logs, "source=model") {
		t.Fatalf("expected debug log on stderr, got %q", logs)
	}
	var got extractOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("stdout should stay pure JSON: %v\n%s", err, out)
	}

	_, logs, err = runSplit(t, `{"exercises":[]}`, "extract")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(logs, "extracted") {
		t.Fatalf("debug log printed without --debug: %q", logs)
	}
}

func TestExtractCmd_UnknownFormat(t *testing.T) {
	if _, err := run(t, "{}", "extract", "-o", "toml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestPromptCmd(t *testing.T) {
	out, err := run(t, "", "prompt", "--name", "Alice")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !strings.Contains(out, "User request: Workout for Alice") {
		t.Fatalf("unexpected prompt:\n%s", out)
	}
	if _, err := run(t, "", "prompt"); err == nil {
		t.Fatal("expected error without --name")
	}
}

func TestCheckModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	model := filepath.Join(t.TempDir(), "model.gguf")
	if err := os.WriteFile(model, []byte("GGUF"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	cfg := &config.Config{ModelPath: model, LlamaServerURL: srv.URL}
	if err := checkModel(context.Background(), &out, cfg); err != nil {
		t.Fatalf("checkModel: %v", err)
	}
	if !strings.Contains(out.String(), "llama server healthy") {
		t.Fatalf("unexpected output: %s", out.String())
	}

	cfg.ModelPath = model + ".missing"
	if err := checkModel(context.Background(), &out, cfg); err == nil {
		t.Fatal("expected error for missing model")
	}
}
