package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"github.com/google/uuid"

	"github.com/bft-labs/knapsack/internal/domain"
	"github.com/bft-labs/knapsack/internal/ports"
	"github.com/bft-labs/knapsack/internal/wire"
)

// ProblemEndpoint is the path problems are posted to.
const ProblemEndpoint = "/knapsack"

// Encoding selects the request body format.
type Encoding string

const (
	EncodingForm Encoding = "form"
	EncodingJSON Encoding = "json"
)

// ParseEncoding validates an encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case EncodingForm:
		return EncodingForm, nil
	case EncodingJSON:
		return EncodingJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown encoding %q (want form or json)", domain.ErrInvalidConfig, s)
	}
}

// ProblemSender implements ports.ProblemSender using a single HTTP POST.
type ProblemSender struct {
	client   ports.HTTPClient
	logger   ports.Logger
	baseURL  string
	encoding Encoding
}

// NewProblemSender creates a sender posting to baseURL + ProblemEndpoint.
func NewProblemSender(client ports.HTTPClient, logger ports.Logger, baseURL string, encoding Encoding) *ProblemSender {
	if encoding == "" {
		encoding = EncodingForm
	}
	return &ProblemSender{
		client:   client,
		logger:   logger,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		encoding: encoding,
	}
}

// Send posts p once. The reply body is discarded and its status returned.
func (s *ProblemSender) Send(ctx context.Context, p domain.Problem) (int, error) {
	body, contentType, err := s.encode(p)
	if err != nil {
		return 0, err
	}

	url := s.baseURL + ProblemEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Client-OSArch", runtime.GOOS+"/"+runtime.GOARCH)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	s.logger.Debug("problem posted",
		ports.String("url", url),
		ports.String("encoding", string(s.encoding)),
		ports.Int("items", p.Len()),
		ports.Int("status", resp.StatusCode),
	)

	return resp.StatusCode, nil
}

// FetchTask performs GET /knapsack/{id} and returns the status and raw body.
func (s *ProblemSender) FetchTask(ctx context.Context, id uuid.UUID) (int, []byte, error) {
	url := s.baseURL + ProblemEndpoint + "/" + id.String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", wire.ContentTypeJSON)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, b, nil
}

func (s *ProblemSender) encode(p domain.Problem) (io.Reader, string, error) {
	switch s.encoding {
	case EncodingJSON:
		b, err := json.Marshal(wire.Envelope{Problem: &p})
		if err != nil {
			return nil, "", fmt.Errorf("marshal problem: %w", err)
		}
		return bytes.NewReader(b), wire.ContentTypeJSON, nil
	default:
		return strings.NewReader(wire.EncodeForm(p).Encode()), wire.ContentTypeForm, nil
	}
}
