// Package mailer delivers export documents to the email relay service.
//
// The relay boundary is POST <base>/api/email/send with a multipart body:
// a comma-joined "recipients" field and the CSV as a file part. All inputs
// are validated before any network activity; transport and server failures
// map to a small category taxonomy instead of surfacing raw.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	sendPath      = "/api/email/send"
	maxRecipients = 10
	fileField     = "report"
)

// Document is the export payload to deliver.
type Document struct {
	Filename string
	Content  []byte
}

// SendResult describes a completed delivery.
type SendResult struct {
	Message    string
	Recipients int
	Filename   string
	Filesize   int64
}

// ProgressFunc receives upload progress as a 0-100 percentage. It may be
// called zero or more times; after the caller cancels the context it simply
// stops firing.
type ProgressFunc func(percent int)

// Client sends export documents to the relay.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// New creates a client for the given base URL. Timeouts are the delivery
// adapter's responsibility, so the HTTP client carries one.
func New(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 60 * time.Second},
		validate: validator.New(),
	}
}

// Send validates the inputs, uploads the document and parses the relay's
// response. Validation failures are returned before any network call, first
// failure wins.
func (c *Client) Send(ctx context.Context, recipients []string, doc Document, onProgress ProgressFunc) (SendResult, error) {
	if err := c.validateInputs(recipients, doc); err != nil {
		return SendResult{}, err
	}

	body, contentType, err := buildMultipart(recipients, doc)
	if err != nil {
		return SendResult{}, fmt.Errorf("mailer: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sendPath,
		newProgressReader(body, onProgress))
	if err != nil {
		return SendResult{}, fmt.Errorf("mailer: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		// Status 0 territory: the server was never reached.
		return SendResult{}, &Error{
			Category: CategoryConnectivity,
			Message:  "email service unreachable, check the connection",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	return parseResponse(resp)
}

func (c *Client) validateInputs(recipients []string, doc Document) error {
	if len(recipients) == 0 {
		return &Error{Category: CategoryValidation, Message: "at least one recipient required"}
	}
	if len(recipients) > maxRecipients {
		return &Error{
			Category: CategoryValidation,
			Message:  fmt.Sprintf("maximum %d recipients, got %d", maxRecipients, len(recipients)),
		}
	}
	for _, addr := range recipients {
		if err := c.validate.Var(addr, "required,email"); err != nil {
			return &Error{
				Category: CategoryValidation,
				Message:  fmt.Sprintf("invalid recipient address %q", addr),
			}
		}
	}
	if len(doc.Content) == 0 || !strings.HasSuffix(strings.ToLower(doc.Filename), ".csv") {
		return &Error{Category: CategoryValidation, Message: "export document missing or not a CSV file"}
	}
	return nil
}

func buildMultipart(recipients []string, doc Document) (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("recipients", strings.Join(recipients, ",")); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile(fileField, doc.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Content); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// apiResponse covers the current success shape, the legacy success shape
// left over from an API migration, and the error shape in one struct.
type apiResponse struct {
	Message    string `json:"message"`
	Recipients int    `json:"recipients"`
	Filename   string `json:"filename"`
	Filesize   int64  `json:"filesize"`
	Error      string `json:"error"`
	Success    bool   `json:"success"`
	Data       *struct {
		EmailsSent int      `json:"emailsSent"`
		Recipients []string `json:"recipients"`
	} `json:"data"`
}

func parseResponse(resp *http.Response) (SendResult, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SendResult{}, &Error{
			Category: CategoryConnectivity,
			Message:  "connection lost while reading the response",
			Err:      err,
		}
	}

	var parsed apiResponse
	// A non-JSON body is tolerated; the status code alone categorizes it.
	_ = json.Unmarshal(raw, &parsed)

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		msg := parsed.Error
		if msg == "" {
			msg = "the email service rejected the request"
		}
		return SendResult{}, &Error{Category: CategoryBadRequest, Message: msg}
	case resp.StatusCode == http.StatusRequestEntityTooLarge:
		return SendResult{}, &Error{Category: CategoryPayloadTooLarge, Message: "export too large to send by email"}
	case resp.StatusCode == http.StatusInternalServerError || resp.StatusCode == http.StatusServiceUnavailable:
		return SendResult{}, &Error{Category: CategoryServer, Message: "email service error, try again later"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return SendResult{}, &Error{
			Category: CategoryServer,
			Message:  fmt.Sprintf("unexpected response from email service (status %d)", resp.StatusCode),
		}
	}

	if parsed.Error != "" {
		return SendResult{}, &Error{Category: CategoryServer, Message: parsed.Error}
	}

	if parsed.Message != "" {
		return SendResult{
			Message:    parsed.Message,
			Recipients: parsed.Recipients,
			Filename:   parsed.Filename,
			Filesize:   parsed.Filesize,
		}, nil
	}

	// Legacy shape from before the API migration; still accepted until the
	// relay confirms the current shape is authoritative.
	if parsed.Success && parsed.Data != nil {
		return SendResult{
			Message:    fmt.Sprintf("%d emails sent", parsed.Data.EmailsSent),
			Recipients: len(parsed.Data.Recipients),
		}, nil
	}

	return SendResult{}, &Error{Category: CategoryServer, Message: "unrecognized response from email service"}
}
