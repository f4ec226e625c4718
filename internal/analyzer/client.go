// internal/analyzer/client.go
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"recruitment-core/internal/common/config"
	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/httpclient"
	"recruitment-core/internal/common/logger"
	"recruitment-core/internal/common/metrics"

	"github.com/xeipuuv/gojsonschema"
)

// responseSchema guards the shape of the analyzer's reply; the analyzer is an
// untrusted remote function and its output is validated before use.
const responseSchema = `{
	"type": "object",
	"properties": {
		"extracted_text": {"type": "string"},
		"match_score": {"type": "number", "minimum": 0, "maximum": 100}
	}
}`

// Result is the normalized outcome of a scoring call. Degraded marks calls
// where the analyzer was unreachable, slow, or returned garbage; such calls
// still succeed with a zero score so intake is never blocked by a scoring
// outage.
type Result struct {
	ExtractedText string
	MatchScore    float64
	Degraded      bool
}

type analyzeResponse struct {
	ExtractedText string  `json:"extracted_text"`
	MatchScore    float64 `json:"match_score"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Client talks to the external resume analyzer.
type Client struct {
	baseURL      string
	httpClient   *httpclient.Client
	healthClient *httpclient.Client
	logger       logger.Logger
	schema       *gojsonschema.Schema
}

func NewClient(cfg config.AnalyzerConfig, log logger.Logger) *Client {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(responseSchema))
	if err != nil {
		// static schema, only reachable by a programming error
		panic(fmt.Sprintf("analyzer response schema: %v", err))
	}

	return &Client{
		baseURL:      cfg.URL,
		httpClient:   httpclient.NewClient(time.Duration(cfg.RequestTimeout) * time.Second),
		healthClient: httpclient.NewClient(time.Duration(cfg.HealthTimeout) * time.Second),
		logger:       log.WithFields(map[string]interface{}{"component": "analyzer-client"}),
		schema:       schema,
	}
}

// Analyze sends the stored file and job description to the analyzer and
// returns extracted text plus a match score in [0, 100]. It never returns an
// error: every failure mode degrades to a zero-score result, by the
// availability-over-correctness contract of intake.
func (c *Client) Analyze(ctx context.Context, filePath, fileName, jobDescription string) *Result {
	start := time.Now()
	result, err := c.analyze(ctx, filePath, fileName, jobDescription)
	metrics.AnalyzerDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AnalyzerRequests.WithLabelValues("degraded").Inc()
		c.logger.WithError(errors.NewAnalyzerUnavailableError(err)).Warn(
			"analyzer call degraded, recording zero score", map[string]interface{}{
				"fileName": fileName,
			})
		return &Result{Degraded: true}
	}

	metrics.AnalyzerRequests.WithLabelValues("ok").Inc()
	return result
}

func (c *Client) analyze(ctx context.Context, filePath, fileName, jobDescription string) (*Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	if err := writer.WriteField("job_description", jobDescription); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/analyze-resume", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("analyzer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analyzer response: %w", err)
	}

	validation, err := c.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("analyzer response not JSON: %w", err)
	}
	if !validation.Valid() {
		return nil, fmt.Errorf("analyzer response failed schema: %v", validation.Errors())
	}

	var parsed analyzeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode analyzer response: %w", err)
	}

	return &Result{
		ExtractedText: parsed.ExtractedText,
		MatchScore:    clampScore(parsed.MatchScore),
	}, nil
}

// Health probes the analyzer's liveness endpoint. Operational monitoring
// only; never on the intake path.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.healthClient.DoWithContext(ctx, req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var parsed healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false
	}
	return parsed.Status == "ok"
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
