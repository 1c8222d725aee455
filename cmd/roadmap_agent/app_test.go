package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/pipeline"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:      config.ProviderGemini,
			MaxInputRunes: 12000,
			Timeout:       10 * time.Second,
		},
		Search: config.SearchConfig{ResultsPerTopic: 3, MaxSkillTopics: 3},
		Roadmap: config.RoadmapConfig{
			Generator:            config.GeneratorTemplate,
			MatchPolicy:          config.MatchContains,
			MaxResourcesPerPhase: 10,
		},
	}
}

// newCompletionServer answers every chat completion with content.
func newCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestBuildApp_Unconfigured(t *testing.T) {
	a, err := buildApp(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Nil(t, a.llmClient)

	_, err = a.orchestrator.Analyze(context.Background(), pipeline.AnalyzeRequest{JDText: "Python role"})
	assert.Equal(t, types.KindDependency, types.ErrorKind(err))
}

func TestBuildApp_LLMGeneratorNeedsKey(t *testing.T) {
	cfg := testConfig()
	cfg.Roadmap.Generator = config.GeneratorLLM

	_, err := buildApp(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "needs text understanding")
}

func TestBuildApp_InvalidMatchPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.Roadmap.MatchPolicy = "fuzzy"

	_, err := buildApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestAnalyze_WithOpenAICompatibleServer(t *testing.T) {
	server := newCompletionServer(t, `{"role":"Backend Engineer","company":"Acme","skills":[`+
		`{"name":"Python","priority":"must-have","importance_score":9},`+
		`{"name":"AWS","priority":"must-have","importance_score":8},`+
		`{"name":"Docker","priority":"nice-to-have","importance_score":6}]}`)

	cfg := testConfig()
	cfg.LLM.Provider = config.ProviderOpenAI
	cfg.LLM.OpenAIAPIKey = "test-key"
	cfg.LLM.OpenAIBaseURL = server.URL + "/v1"

	a, err := buildApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	require.NotNil(t, a.llmClient)

	out, err := analyze(newTestCommand(), a.orchestrator,
		"Seeking a Python backend engineer with AWS and Docker experience", nil, true)
	require.NoError(t, err)

	require.Len(t, out.Analysis.Skills, 3)
	assert.Equal(t, "Python", out.Analysis.Skills[0].Name)
	require.NotNil(t, out.Roadmap)
	assert.Len(t, out.Roadmap.Phases, 3)
	assert.Equal(t, out.Analysis.JDID, out.Roadmap.JDID)
}

func TestReadJD(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte("Go developer"), 0o600))

	text, err := readJD(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)

	text, err = readJD(strings.NewReader("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	_, err = readJD(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to read job description")
}

func TestReadResume(t *testing.T) {
	upload, err := readResume("")
	require.NoError(t, err)
	assert.Nil(t, upload)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))
	upload, err = readResume(path)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", upload.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), upload.Data)
}

func TestWriteOutput(t *testing.T) {
	out := &AnalyzeOutput{Analysis: &types.JdAnalysis{JDID: "jd_0123456789ab", Role: "Backend Engineer"}}

	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "", out))
	assert.Contains(t, buf.String(), `"jd_id": "jd_0123456789ab"`)
	assert.NotContains(t, buf.String(), `"roadmap"`)

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput(nil, path, out))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, strings.TrimSpace(buf.String()), string(data))
}

func TestAnalyzeCommand_RequiresJD(t *testing.T) {
	var stderr bytes.Buffer
	rootCmd.SetArgs([]string{"analyze"})
	rootCmd.SetErr(&stderr)
	rootCmd.SetOut(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, `required flag(s) "jd" not set`)
}
