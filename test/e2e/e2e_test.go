// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitsa-assistant/internal/bootstrap"
	"bitsa-assistant/internal/common/camunda"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/store/memstore"

	ac "bitsa-assistant/internal/workers/assistant/assistant-chat"
	as "bitsa-assistant/internal/workers/assistant/assistant-search"
	gbc "bitsa-assistant/internal/workers/content/generate-blog-content"
	ged "bitsa-assistant/internal/workers/content/generate-event-description"
	gpf "bitsa-assistant/internal/workers/content/generate-project-feedback"
	tc "bitsa-assistant/internal/workers/content/translate-content"
)

// These tests need a running Zeebe gateway. Everything else, including the
// completion service, runs in-process.
const addressEnv = "E2E_ZEEBE_ADDRESS"

type env struct {
	client   zbc.Client
	services *bootstrap.Services
	workers  []worker.JobWorker
}

// processXML is a one-task process bound to taskType.
func processXML(processID, taskType string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
  xmlns:zeebe="http://camunda.org/schema/zeebe/1.0"
  id="Definitions_%[1]s" targetNamespace="http://bitsa.club/assistant">
  <bpmn:process id="%[1]s" isExecutable="true">
    <bpmn:startEvent id="start"><bpmn:outgoing>toTask</bpmn:outgoing></bpmn:startEvent>
    <bpmn:sequenceFlow id="toTask" sourceRef="start" targetRef="task" />
    <bpmn:serviceTask id="task" name="%[2]s">
      <bpmn:extensionElements><zeebe:taskDefinition type="%[2]s" retries="1" /></bpmn:extensionElements>
      <bpmn:incoming>toTask</bpmn:incoming><bpmn:outgoing>toEnd</bpmn:outgoing>
    </bpmn:serviceTask>
    <bpmn:sequenceFlow id="toEnd" sourceRef="task" targetRef="end" />
    <bpmn:endEvent id="end"><bpmn:incoming>toEnd</bpmn:incoming></bpmn:endEvent>
  </bpmn:process>
</bpmn:definitions>`, processID, taskType))
}

// fakeCompletions answers each prompt with a canned reply chosen by content.
func fakeCompletions(t *testing.T) *httptest.Server {
	replies := []struct{ marker, reply string }{
		{"blog post", `{"title":"Go Concurrency 101","content":"Goroutines are cheap."}`},
		{"Translate", `{"title":"Hola","body":"Mundo"}`},
		{"reviewing a student", `{"feedback":"Solid start.","suggestions":["Add tests"],"rating":8}`},
		{"engaging description", "Join us for a hands-on Go workshop."},
		{"Search query:", `{"summary":"One Go tutorial matches.","relevantItems":[{"type":"blog","title":"Getting started with Go","relevance":"high"}],"suggestions":["Go workshop"]}`},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt := ""
		if n := len(body.Messages); n > 0 {
			prompt = body.Messages[n-1].Content
		}

		content := "The next event is the Go workshop."
		for _, c := range replies {
			if strings.Contains(prompt, c.marker) {
				content = c.reply
				break
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "llama-3.3-70b-versatile",
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setup(t *testing.T) *env {
	address := os.Getenv(addressEnv)
	if address == "" {
		t.Skipf("%s not set", addressEnv)
	}
	if testing.Short() {
		t.Skip("skipping E2E test in short mode")
	}

	log := logger.NewTestLogger(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	zc, err := camunda.NewClient(ctx, &camunda.ClientConfig{
		GatewayAddress:         address,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RetryConfig:            &camunda.RetryConfig{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 5 * time.Second},
	}, log)
	require.NoError(t, err)
	t.Cleanup(func() { zc.Close() })

	store, err := memstore.Load("../../internal/store/memstore/testdata/club.yaml")
	require.NoError(t, err)

	cfg := &config.Config{
		Completion: config.CompletionConfig{Provider: "groq", BaseURL: fakeCompletions(t).URL, APIKey: "e2e", Timeout: 5000},
	}
	services, err := bootstrap.Build(ctx, cfg, store, log)
	require.NoError(t, err)
	t.Cleanup(services.Close)

	e := &env{client: zc.GetClient(), services: services}
	wcfg := config.WorkerConfig{Enabled: true, MaxJobsActive: 5, Timeout: 30000}
	start := func(taskType string, h camunda.JobHandler, fetch []string) {
		e.workers = append(e.workers, camunda.StartWorker(e.client, taskType, wcfg, h, fetch, nil, log))
	}
	start(ac.TaskType, ac.NewHandler(ac.DefaultConfig(), services.Orchestrator, log), ac.FetchVariables)
	start(as.TaskType, as.NewHandler(as.DefaultConfig(), services.Orchestrator, log), as.FetchVariables)
	start(gbc.TaskType, gbc.NewHandler(gbc.DefaultConfig(), services.Generator, services.Audit, log), gbc.FetchVariables)
	start(tc.TaskType, tc.NewHandler(tc.DefaultConfig(), services.Generator, services.Audit, log), tc.FetchVariables)
	start(gpf.TaskType, gpf.NewHandler(gpf.DefaultConfig(), services.Generator, services.Audit, log), gpf.FetchVariables)
	start(ged.TaskType, ged.NewHandler(ged.DefaultConfig(), services.Generator, services.Audit, log), ged.FetchVariables)
	t.Cleanup(func() {
		for _, w := range e.workers {
			w.Close()
			w.AwaitClose()
		}
	})
	return e
}

// run deploys a one-task process for taskType and returns its final variables.
func (e *env) run(t *testing.T, taskType string, vars map[string]interface{}) map[string]interface{} {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	processID := "e2e-" + taskType
	_, err := e.client.NewDeployResourceCommand().
		AddResource(processXML(processID, taskType), processID+".bpmn").
		Send(ctx)
	require.NoError(t, err)

	cmd, err := e.client.NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(vars)
	require.NoError(t, err)

	res, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.GetVariables()), &out))
	return out
}

func TestWorkersEndToEnd(t *testing.T) {
	e := setup(t)

	t.Run("assistant-chat", func(t *testing.T) {
		out := e.run(t, ac.TaskType, map[string]interface{}{"message": "When is the next event?"})
		assert.Equal(t, "The next event is the Go workshop.", out["response"])
		assert.Equal(t, false, out["regenerated"])
	})

	t.Run("assistant-search", func(t *testing.T) {
		out := e.run(t, as.TaskType, map[string]interface{}{"query": "go"})
		assert.Equal(t, "One Go tutorial matches.", out["searchSummary"])
	})

	t.Run("generate-blog-content", func(t *testing.T) {
		out := e.run(t, gbc.TaskType, map[string]interface{}{"topic": "Go concurrency", "category": "Tutorials"})
		assert.Equal(t, "Go Concurrency 101", out["blogTitle"])
		assert.Equal(t, "go-concurrency-101", out["blogSlug"])
	})

	t.Run("translate-content", func(t *testing.T) {
		out := e.run(t, tc.TaskType, map[string]interface{}{"title": "Hello", "body": "World", "targetLanguage": "es"})
		assert.Equal(t, "Hola", out["translatedTitle"])
	})

	t.Run("generate-project-feedback", func(t *testing.T) {
		out := e.run(t, gpf.TaskType, map[string]interface{}{"projectTitle": "Campus Map", "projectDescription": "Indoor navigation"})
		assert.Equal(t, float64(8), out["feedbackRating"])
	})

	t.Run("generate-event-description", func(t *testing.T) {
		out := e.run(t, ged.TaskType, map[string]interface{}{
			"eventTitle": "Go Workshop", "eventType": "workshop", "targetAudience": "first-years",
		})
		assert.Equal(t, "Join us for a hands-on Go workshop.", out["eventDescription"])
	})
}
