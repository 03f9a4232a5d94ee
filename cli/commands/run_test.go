package commands

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumenlabs/lumen-go/cli/config"
	"github.com/lumenlabs/lumen-go/cli/keystore"
	"github.com/lumenlabs/lumen-go/core"
	"github.com/lumenlabs/lumen-go/lumen"
)

// fakeKeystore is an in-memory keystore for command tests.
type fakeKeystore struct {
	keys map[string]string
}

func (f *fakeKeystore) Set(name, value string) error {
	f.keys[name] = value
	return nil
}

func (f *fakeKeystore) Get(name string) (string, error) {
	v, ok := f.keys[name]
	if !ok {
		return "", &keystore.ErrKeyNotFound{Name: name}
	}
	return v, nil
}

func (f *fakeKeystore) Delete(name string) error {
	if _, ok := f.keys[name]; !ok {
		return &keystore.ErrKeyNotFound{Name: name}
	}
	delete(f.keys, name)
	return nil
}

func (f *fakeKeystore) List() ([]string, error) {
	names := make([]string, 0, len(f.keys))
	for name := range f.keys {
		names = append(names, name)
	}
	return names, nil
}

type testApp struct {
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(serverURL string, keys map[string]string) *testApp {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	app := NewApp(
		WithConfigLoader(func(path string) (*config.Config, error) {
			return &config.Config{}, nil
		}),
		WithClientFactory(func(apiKey string, cfg *config.Config) (*lumen.Client, error) {
			return lumen.New(apiKey, lumen.WithBaseURL(serverURL)), nil
		}),
		WithKeystoreFactory(func() (keystore.Keystore, error) {
			return &fakeKeystore{keys: keys}, nil
		}),
		WithIO(strings.NewReader(""), stdout, stderr),
	)

	return &testApp{app: app, stdout: stdout, stderr: stderr}
}

func (ta *testApp) execute(args ...string) error {
	ta.app.root.SetArgs(args)
	return ta.app.Execute()
}

func TestExitError(t *testing.T) {
	err := exitWithCode(ExitValidation, errors.New("test error"))

	if err.Error() != "test error" {
		t.Errorf("Error() = %q, want 'test error'", err.Error())
	}

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}

	if exitErr.ExitCode() != ExitValidation {
		t.Errorf("ExitCode() = %d, want %d", exitErr.ExitCode(), ExitValidation)
	}
}

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"success", ExitSuccess, 0},
		{"validation", ExitValidation, 1},
		{"api", ExitAPI, 2},
		{"network", ExitNetwork, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("Exit%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

func TestRunCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"int_1","status":"completed","contents":[{"type":"text","text":"Hello there"}]}`))
	}))
	defer server.Close()

	ta := newTestApp(server.URL, map[string]string{"default": "test-key"})

	if err := ta.execute("run", "--model", "lumen-2-flash", "--prompt", "Hello"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	out := ta.stdout.String()
	if !strings.Contains(out, "Hello there") {
		t.Errorf("output = %q, want it to contain the response text", out)
	}
}

func TestRunCommandStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: {\"event_type\":\"content.delta\",\"index\":0,\"delta\":{\"type\":\"text\",\"text\":\"streamed\"}}\n\n" +
			"data: [DONE]\n\n"))
	}))
	defer server.Close()

	ta := newTestApp(server.URL, map[string]string{"default": "test-key"})

	if err := ta.execute("run", "--model", "lumen-2-flash", "--prompt", "Hello", "--stream"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(ta.stdout.String(), "streamed") {
		t.Errorf("output = %q, want it to contain streamed text", ta.stdout.String())
	}
}

func TestRunCommandMissingModel(t *testing.T) {
	ta := newTestApp("http://unused", map[string]string{"default": "test-key"})

	err := ta.execute("run", "--prompt", "Hello")
	if err == nil {
		t.Fatal("Execute() error = nil, want validation error")
	}

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}
	if exitErr.ExitCode() != ExitValidation {
		t.Errorf("ExitCode() = %d, want %d", exitErr.ExitCode(), ExitValidation)
	}
}

func TestRunCommandMissingKey(t *testing.T) {
	ta := newTestApp("http://unused", map[string]string{})

	err := ta.execute("run", "--model", "lumen-2-flash", "--prompt", "Hello")
	if err == nil {
		t.Fatal("Execute() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "no API key stored") {
		t.Errorf("error = %v, want a missing-key message", err)
	}
}

func TestHandleRunErrorValidation(t *testing.T) {
	ta := newTestApp("http://unused", nil)
	err := ta.app.handleRunError(core.ErrModelRequired)

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}

	if exitErr.ExitCode() != ExitValidation {
		t.Errorf("ExitCode() = %d, want %d (ExitValidation)", exitErr.ExitCode(), ExitValidation)
	}
}

func TestHandleRunErrorNetwork(t *testing.T) {
	ta := newTestApp("http://unused", nil)
	err := ta.app.handleRunError(core.ErrNetwork)

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}

	if exitErr.ExitCode() != ExitNetwork {
		t.Errorf("ExitCode() = %d, want %d (ExitNetwork)", exitErr.ExitCode(), ExitNetwork)
	}
}

func TestHandleRunErrorAPI(t *testing.T) {
	ta := newTestApp("http://unused", nil)
	apiErr := &core.APIError{
		Status:    429,
		RequestID: "req_123",
		Code:      "rate_limited",
		Message:   "Too many requests",
		Err:       core.ErrRateLimited,
	}

	err := ta.app.handleRunError(apiErr)

	exitErr, ok := err.(*exitError)
	if !ok {
		t.Fatal("expected *exitError type")
	}

	if exitErr.ExitCode() != ExitAPI {
		t.Errorf("ExitCode() = %d, want %d (ExitAPI)", exitErr.ExitCode(), ExitAPI)
	}
	if !strings.Contains(ta.stderr.String(), "req_123") {
		t.Errorf("stderr = %q, want it to include the request ID", ta.stderr.String())
	}
}

func TestKeysCommands(t *testing.T) {
	keys := map[string]string{}
	stdout := &bytes.Buffer{}

	app := NewApp(
		WithConfigLoader(func(path string) (*config.Config, error) {
			return &config.Config{}, nil
		}),
		WithKeystoreFactory(func() (keystore.Keystore, error) {
			return &fakeKeystore{keys: keys}, nil
		}),
		WithIO(strings.NewReader("lk-secret\n"), stdout, &bytes.Buffer{}),
	)

	app.root.SetArgs([]string{"keys", "set", "staging"})
	if err := app.Execute(); err != nil {
		t.Fatalf("keys set error = %v", err)
	}
	if keys["staging"] != "lk-secret" {
		t.Errorf("stored key = %q, want lk-secret", keys["staging"])
	}

	app.root.SetArgs([]string{"keys", "list"})
	if err := app.Execute(); err != nil {
		t.Fatalf("keys list error = %v", err)
	}
	if !strings.Contains(stdout.String(), "staging") {
		t.Errorf("list output = %q, want it to contain staging", stdout.String())
	}

	app.root.SetArgs([]string{"keys", "delete", "staging"})
	if err := app.Execute(); err != nil {
		t.Fatalf("keys delete error = %v", err)
	}
	if _, ok := keys["staging"]; ok {
		t.Error("key still present after delete")
	}
}

func TestVersionCommand(t *testing.T) {
	ta := newTestApp("http://unused", nil)

	if err := ta.execute("version"); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(ta.stdout.String(), "lumen") {
		t.Errorf("version output = %q, want it to contain 'lumen'", ta.stdout.String())
	}
}
