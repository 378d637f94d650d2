// Package refiner filters hydrated search results through a relevance
// judgment model served by an Ollama-compatible endpoint.
package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tubeseek/search-service-go/internal/models"
	"github.com/tubeseek/search-service-go/internal/service"
)

// Client is a client for the relevance judgment model.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds the configuration for the refiner client.
type Config struct {
	BaseURL string        // e.g., "http://ollama.example.com:11434"
	Model   string        // e.g., "llama3:8b"
	APIKey  string        // Optional API key for authentication
	Timeout time.Duration // Request timeout (default: 60 seconds)
}

// NewClient creates a new refiner client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		model:   config.Model,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// generateRequest represents a request to the model's /api/generate endpoint.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Format string `json:"format"` // "json" for structured output
	Stream bool   `json:"stream"` // false for non-streaming
}

// generateResponse represents a response from the /api/generate endpoint.
type generateResponse struct {
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	Response  string    `json:"response"` // The actual JSON response from the model
	Done      bool      `json:"done"`
}

// refinementVerdict is the structured output the model is instructed to
// return: the identifiers of the relevant videos, best first.
type refinementVerdict struct {
	VideoIDs []string `json:"videoIds"`
}

// Refine asks the model which of the given results are relevant to the query
// and returns that subset in the model's preferred order. The model only ever
// names identifiers; the subset is assembled from the input set, so the
// output can never contain a video that was not in the input. Any failure to
// obtain structured output is ErrRefinementFailed.
func (c *Client) Refine(ctx context.Context, query string, results []models.SearchResult) ([]models.SearchResult, error) {
	if len(results) == 0 {
		return []models.SearchResult{}, nil
	}

	reqPayload := generateRequest{
		Model:  c.model,
		Prompt: buildRefinementPrompt(query, results),
		Format: "json",
		Stream: false,
	}

	reqBody, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", service.ErrRefinementFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", service.ErrRefinementFailed, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request to model: %v", service.ErrRefinementFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: model returned status %d: %s", service.ErrRefinementFailed, resp.StatusCode, string(body))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", service.ErrRefinementFailed, err)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("%w: parse model response: %v", service.ErrRefinementFailed, err)
	}

	rawVerdict := strings.TrimSpace(genResp.Response)
	if rawVerdict == "" {
		return nil, fmt.Errorf("%w: model returned empty output", service.ErrRefinementFailed)
	}

	var verdict refinementVerdict
	if err := json.Unmarshal([]byte(rawVerdict), &verdict); err != nil {
		return nil, fmt.Errorf("%w: parse verdict JSON: %v (raw: %s)", service.ErrRefinementFailed, err, rawVerdict)
	}

	return selectByID(results, verdict.VideoIDs), nil
}

// selectByID maps the model's identifier list back to the input results,
// keeping the model's order, dropping duplicates and identifiers it invented.
func selectByID(results []models.SearchResult, ids []string) []models.SearchResult {
	byID := make(map[string]models.SearchResult, len(results))
	for _, r := range results {
		byID[r.VideoID] = r
	}

	refined := make([]models.SearchResult, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if r, ok := byID[id]; ok {
			refined = append(refined, r)
		}
	}

	return refined
}

// maxPromptDescription caps each candidate's description in the prompt.
const maxPromptDescription = 500

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// buildRefinementPrompt constructs the relevance judgment prompt. Each
// candidate is described by title, description, view count, and like count.
func buildRefinementPrompt(query string, results []models.SearchResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are judging which YouTube videos are topically relevant to a user's search query.

Search query: %q

Candidate videos:
`, query)

	for i, r := range results {
		fmt.Fprintf(&sb, "%d. videoId: %s\n   Title: %s\n   Description: %s\n   Views: %s, Likes: %s\n",
			i+1, r.VideoID, r.Title, truncate(r.Description, maxPromptDescription), r.ViewCount, r.LikeCount)
	}

	sb.WriteString(`
Select only the videos that are genuinely relevant to the search query, ordered from most to least relevant. Judge relevance from the title and description; use view and like counts to break ties between equally relevant videos. Omit videos that are off-topic, clickbait for a different subject, or only tangentially related.

Return your response as JSON in this exact format:
{
  "videoIds": ["abc123", "def456"]
}

Use only videoId values from the candidate list above. If none of the candidates are relevant, return:
{
  "videoIds": []
}

Only return the JSON, no additional text or explanation.`)

	return sb.String()
}

// GetPromptText returns the prompt that would be sent for the given inputs.
// Useful for debugging and for auditing refinement decisions.
func (c *Client) GetPromptText(query string, results []models.SearchResult) string {
	return buildRefinementPrompt(query, results)
}
