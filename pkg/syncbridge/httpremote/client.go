package httpremote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/defeedco/foryou/pkg/syncbridge"
	"github.com/defeedco/foryou/pkg/utils"
	"github.com/rs/zerolog"
)

const interestsPath = "/v1/interests"

var _ syncbridge.Remote = (*Client)(nil)

// Client talks to the remote persistence service over JSON/HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zerolog.Logger
}

func NewClient(baseURL string, logger *zerolog.Logger) *Client {
	return &Client{
		httpClient: utils.NewDefaultHTTPClient(),
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

type snapshotPayload struct {
	Interests map[string]float64 `json:"interests"`
	ReadCount int64              `json:"readCount"`
}

func (c *Client) Push(ctx context.Context, req syncbridge.PushRequest) error {
	body, err := json.Marshal(snapshotPayload{
		Interests: req.Snapshot.Interests,
		ReadCount: req.Snapshot.ReadCount,
	})
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+interestsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}

	if err := utils.DoJSON(c.httpClient, httpReq, nil); err != nil {
		return fmt.Errorf("put interests: %w", err)
	}

	c.logger.Trace().Int("bytes", len(body)).Msg("Snapshot uploaded")

	return nil
}

func (c *Client) Pull(ctx context.Context, authToken string) (*syncbridge.Snapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+interestsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+authToken)

	var payload snapshotPayload
	if err := utils.DoJSON(c.httpClient, httpReq, &payload); err != nil {
		return nil, fmt.Errorf("get interests: %w", err)
	}

	return &syncbridge.Snapshot{
		Interests: payload.Interests,
		ReadCount: payload.ReadCount,
	}, nil
}
