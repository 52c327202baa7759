// internal/mockchat/mockchat.go
// Package mockchat serves an offline OpenAI-compatible chat-completions
// endpoint. The canned solver echoes any answer block embedded in the
// prompt, so narrative generation and prediction runs work end to end
// without a hosted model; failure and latency injection exercise the
// retry paths.
package mockchat

import (
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Options tune the mock server's behavior.
type Options struct {
	// FailRate is the probability in [0,1] that a completion returns 500.
	FailRate float64
	// Latency delays every completion response.
	Latency time.Duration
	// Seed makes failure injection reproducible. Zero seeds from the clock.
	Seed int64
}

// Server is a deterministic stand-in for a hosted chat-completions API.
type Server struct {
	opts Options

	mu  sync.Mutex
	rng *rand.Rand

	// Requests counts completion calls, for tests and the status route.
	requests int
}

// answerLine matches the canonical group markup embedded in solver prompts.
var answerLine = regexp.MustCompile(`\*\*[^*\n]+\*\*:[^\n]+`)

// New builds a mock server.
func New(opts Options) *Server {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Server{opts: opts, rng: rand.New(rand.NewSource(seed))}
}

// Engine returns the configured gin router.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	engine.GET("/v1/models", s.handleModels)
	engine.POST("/v1/chat/completions", s.handleCompletion)
	return engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	fmt.Printf("mockchat listening on %s\n", addr)
	return s.Engine().Run(addr)
}

func (s *Server) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data": []gin.H{
			{"id": "mock-solver", "object": "model"},
			{"id": "mock-narrator", "object": "model"},
		},
	})
}

type completionRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (s *Server) handleCompletion(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "invalid JSON: " + err.Error()}})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "messages is required"}})
		return
	}

	s.mu.Lock()
	s.requests++
	fail := s.rng.Float64() < s.opts.FailRate
	s.mu.Unlock()

	if s.opts.Latency > 0 {
		time.Sleep(s.opts.Latency)
	}
	if fail {
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "injected failure"}})
		return
	}

	prompt := req.Messages[len(req.Messages)-1].Content
	content := s.reply(prompt)

	c.JSON(http.StatusOK, gin.H{
		"model": req.Model,
		"choices": []gin.H{
			{
				"index":         0,
				"message":       gin.H{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": gin.H{
			"prompt_tokens":     len(strings.Fields(prompt)),
			"completion_tokens": len(strings.Fields(content)),
			"total_tokens":      len(strings.Fields(prompt)) + len(strings.Fields(content)),
		},
	})
}

// reply plays the echo solver: when the prompt embeds canonical answer
// lines it narrates toward them; otherwise it produces a fixed narrative
// so length-based acceptance still passes.
func (s *Server) reply(prompt string) string {
	if lines := answerLine.FindAllString(prompt, -1); len(lines) > 0 {
		var b strings.Builder
		b.WriteString("Let me work through these words carefully. Scanning for shared themes, testing each grouping against the leftovers, ")
		b.WriteString("I can eliminate the tempting red herrings one at a time until the categories lock into place.\n\n")
		b.WriteString("So my four groups are:\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
		return strings.TrimRight(b.String(), "\n")
	}

	return "Looking at the words, I group them by surface pattern first, then by meaning. After checking each candidate " +
		"group against the remaining words and rejecting overlaps, the partition that survives is the one I commit to.\n\n" +
		"So my four groups are:\n" +
		"**FIRST**: alpha, beta, gamma, delta\n" +
		"**SECOND**: one, two, three, four\n" +
		"**THIRD**: red, green, blue, yellow\n" +
		"**FOURTH**: north, south, east, west"
}

// Requests reports how many completion calls the server has seen.
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}
