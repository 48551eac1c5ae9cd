package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/spance/concise-go/constants"
	"github.com/spance/concise-go/shortener/definitions"
	"github.com/spance/concise-go/shortener/helper"
)

const HeaderClientRequestID = "X-Client-Request-Id"

type ModelClient struct {
	config *definitions.Config
	client *resty.Client
	logger *zerolog.Logger
}

// NewModelClient builds a client for one configuration. A nil logger
// discards all output.
func NewModelClient(cfg *definitions.Config, logger *zerolog.Logger) *ModelClient {
	if cfg == nil {
		cfg = &definitions.Config{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	client := resty.New().
		SetRetryCount(0).
		SetDisableWarn(true).
		SetLogger(logAdapter{logger: logger})

	return &ModelClient{
		config: cfg,
		client: client,
		logger: logger,
	}
}

// Request sends one chat completion call and returns the trimmed content of
// the first choice. Failures are returned as *definitions.Error.
func (c *ModelClient) Request(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	logger := c.logger

	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: constants.Temperature,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	requestID := uuid.New().String()
	logger.Debug().
		Str("request_id", requestID).
		Str("endpoint", c.config.Endpoint).
		Str("model", c.config.Model).
		Int("bytes", len(payload)).
		Msg("sending chat completion request")

	startTime := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(c.config.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderClientRequestID, requestID).
		SetBody(payload).
		Post(c.config.Endpoint)
	if err != nil {
		logger.Debug().Str("request_id", requestID).Err(err).Msg("request failed")
		return "", definitions.NewConnectivityError(err)
	}

	body := resp.Body()
	logger.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(startTime)).
		Msg("received response")

	if !resp.IsSuccess() {
		return "", definitions.NewAPIError(resp.StatusCode(), string(body))
	}

	content, err := helper.ExtractContent(body)
	if err != nil {
		logger.Debug().Str("request_id", requestID).Err(err).Msg("malformed response")
		return "", definitions.NewResponseFormatError(string(body), err)
	}
	return strings.TrimSpace(content), nil
}

// logAdapter sends resty's internal logging to zerolog at debug level so it
// never reaches stderr in normal runs.
type logAdapter struct {
	logger *zerolog.Logger
}

func (l logAdapter) Errorf(format string, v ...interface{}) {
	l.logger.Debug().Str("source", "resty").Msgf(format, v...)
}

func (l logAdapter) Warnf(format string, v ...interface{}) {
	l.logger.Debug().Str("source", "resty").Msgf(format, v...)
}

func (l logAdapter) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Str("source", "resty").Msgf(format, v...)
}
