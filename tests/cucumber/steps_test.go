package cucumber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/cucumber/godog"

	"adaptik/internal/cli"
	"adaptik/pkg/adaptive/httpclient"
)

// featureState holds scenario state for cucumber CLI tests.
type featureState struct {
	server        *httptest.Server
	itemCount     int
	continueCalls int
	previousEnv   map[string]*string
	stdout        bytes.Buffer
	stderr        bytes.Buffer
	exitCode      int
}

// InitializeScenario wires cucumber steps to the feature state.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^an evaluation service with a dataset of (\d+) items$`, state.anEvaluationService)
	ctx.Step(`^service credentials are available in the environment$`, state.credentialsAreAvailable)
	ctx.Step(`^no API key is configured$`, state.noAPIKeyIsConfigured)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the error output contains "([^"]+)"$`, state.theErrorOutputContains)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
}

// reset clears buffers and state before each scenario.
func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.itemCount = 0
	s.continueCalls = 0
	s.previousEnv = map[string]*string{}
}

// cleanup restores the environment and stops the fake service.
func (s *featureState) cleanup() {
	for key, value := range s.previousEnv {
		if value == nil {
			_ = os.Unsetenv(key)
			continue
		}
		_ = os.Setenv(key, *value)
	}
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
}

// setEnv records and sets an environment variable for the scenario.
func (s *featureState) setEnv(key, value string) error {
	if _, exists := s.previousEnv[key]; !exists {
		if current, ok := os.LookupEnv(key); ok {
			previous := current
			s.previousEnv[key] = &previous
		} else {
			s.previousEnv[key] = nil
		}
	}
	if err := os.Setenv(key, value); err != nil {
		return fmt.Errorf("set env %s: %w", key, err)
	}
	return nil
}

// anEvaluationService starts a fake service that serves one dataset and
// paces an adaptive run over n items.
func (s *featureState) anEvaluationService(n int) error {
	s.itemCount = n
	mux := http.NewServeMux()
	mux.HandleFunc("/adaptive-testing/datasets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": []map[string]any{{"id": "ds-1", "name": "Synthetic QA"}},
		})
	})
	mux.HandleFunc("/adaptive-testing/runs/start", func(w http.ResponseWriter, r *http.Request) {
		s.continueCalls = 0
		writeJSON(w, s.runResponse(0))
	})
	mux.HandleFunc("/adaptive-testing/runs/continue", func(w http.ResponseWriter, r *http.Request) {
		s.continueCalls++
		writeJSON(w, s.runResponse(s.continueCalls))
	})
	s.server = httptest.NewServer(mux)
	return s.setEnv(httpclient.EnvServiceURL, s.server.URL+"/adaptive-testing")
}

// runResponse builds the payload after `answered` items were answered.
func (s *featureState) runResponse(answered int) map[string]any {
	thetas := make([]float64, 0, answered+1)
	stdErrs := make([]float64, 0, answered+1)
	for i := 0; i <= answered; i++ {
		thetas = append(thetas, float64(i)*0.1)
		stdErrs = append(stdErrs, 1.0/float64(i+1))
	}
	resp := map[string]any{
		"runInfo":   map[string]any{"id": "run-1"},
		"state":     map[string]any{"thetas": thetas, "std_error_history": stdErrs},
		"completed": answered >= s.itemCount,
		"nextItem":  nil,
	}
	if answered < s.itemCount {
		itemID := fmt.Sprintf("q%d", answered+1)
		resp["nextItem"] = map[string]any{
			"type":     "multiple_choice_text",
			"id":       itemID,
			"question": "?",
			"choices": []map[string]any{
				{"id": itemID + "-a", "text": "a"},
				{"id": itemID + "-b", "text": "b"},
			},
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *featureState) credentialsAreAvailable() error {
	return s.setEnv(httpclient.EnvAPIKey, "cucumber-key")
}

func (s *featureState) noAPIKeyIsConfigured() error {
	return s.setEnv(httpclient.EnvAPIKey, "")
}

// iRunCommand executes the CLI in process.
func (s *featureState) iRunCommand(command string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 || fields[0] != "adaptik" {
		return fmt.Errorf("expected an adaptik command, got %q", command)
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(fields[1:], &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected exit 0, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected a non-zero exit code (stdout: %s)", s.stdout.String())
	}
	return nil
}

func (s *featureState) theOutputContains(expected string) error {
	if !strings.Contains(s.stdout.String(), expected) {
		return fmt.Errorf("expected stdout to contain %q, got: %s", expected, s.stdout.String())
	}
	return nil
}

func (s *featureState) theErrorOutputContains(expected string) error {
	if !strings.Contains(s.stderr.String(), expected) {
		return fmt.Errorf("expected stderr to contain %q, got: %s", expected, s.stderr.String())
	}
	return nil
}

func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	for _, row := range table.Rows {
		name := strings.TrimSpace(row.Cells[0].Value)
		if !strings.Contains(s.stdout.String(), name) {
			return fmt.Errorf("expected command %q in output: %s", name, s.stdout.String())
		}
	}
	return nil
}
