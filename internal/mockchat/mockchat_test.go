// internal/mockchat/mockchat_test.go
package mockchat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postCompletion(t *testing.T, engine http.Handler, prompt string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"model": "mock-solver",
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func completionContent(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Choices, 1)
	return resp.Choices[0].Message.Content
}

func TestEchoSolverRepeatsEmbeddedAnswers(t *testing.T) {
	engine := New(Options{}).Engine()

	prompt := "Solve this Connections puzzle.\nConclude with:\n" +
		"**BIRDS**: robin, wren, crow, finch\n" +
		"**TOOLS**: saw, drill, plane, level\n" +
		"**COLORS**: red, blue, teal, jade\n" +
		"**GAITS**: trot, walk, canter, gallop\n"

	rec := postCompletion(t, engine, prompt)
	require.Equal(t, http.StatusOK, rec.Code)

	content := completionContent(t, rec)
	assert.Contains(t, content, "**BIRDS**: robin, wren, crow, finch")
	assert.Contains(t, content, "**GAITS**: trot, walk, canter, gallop")
	assert.Contains(t, content, "So my four groups are:")
}

func TestFixedNarrativeWithoutEmbeddedAnswers(t *testing.T) {
	engine := New(Options{}).Engine()

	rec := postCompletion(t, engine, "Solve this Connections puzzle by finding 4 groups of 4 related words:\nWords: A, B, C")
	require.Equal(t, http.StatusOK, rec.Code)

	content := completionContent(t, rec)
	assert.Contains(t, content, "**FIRST**: alpha, beta, gamma, delta")
	// The canned narrative must clear the 100-rune acceptance threshold.
	assert.Greater(t, len(content), 100)
}

func TestFailureInjectionIsSeeded(t *testing.T) {
	server := New(Options{FailRate: 1.0, Seed: 7})
	engine := server.Engine()

	rec := postCompletion(t, engine, "anything")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, server.Requests())
}

func TestRejectsMalformedRequests(t *testing.T) {
	engine := New(Options{}).Engine()

	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(`{"model":"m","messages":[]}`))
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModelsListing(t *testing.T) {
	engine := New(Options{}).Engine()

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
