package apstra

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Command execution is asynchronous on the controller side: submitting a
// command returns a request id, the result is polled until the agent reports
// success, and the finished job is deleted afterwards. The lifecycle per
// invocation is submit -> poll -> {completed | timed out | failed} ->
// cleanup, with cleanup attempted exactly once for every job that was
// successfully submitted, whatever the outcome.

type submitResponse struct {
	RequestID string `json:"request_id"`
}

type pollResponse struct {
	Result string `json:"result"`
	Output string `json:"output"`
}

// RunCommand executes commandText on a system and returns its raw output.
// The poll loop honors ctx between attempts, so a cancelled context stops
// the job promptly (cleanup still runs, detached from ctx).
func (c *Client) RunCommand(ctx context.Context, systemID, commandText string) (string, error) {
	if !c.Authenticated() {
		return "", ErrNotAuthenticated
	}

	requestID, err := c.submitCommand(ctx, systemID, commandText)
	if err != nil {
		return "", err
	}
	defer c.cleanupCommand(requestID)

	return c.pollCommand(ctx, requestID)
}

// submitCommand sends the command and returns the controller's request id.
func (c *Client) submitCommand(ctx context.Context, systemID, commandText string) (string, error) {
	body := map[string]string{
		"system_id":     systemID,
		"output_format": "json",
		"command_text":  commandText,
	}
	var resp submitResponse
	if err := c.doJSON(ctx, "submit", http.MethodPost, "/api/telemetry/fetchcmd", body, &resp); err != nil {
		return "", err
	}
	if resp.RequestID == "" {
		return "", &TransportError{Op: "submit", URL: c.url("/api/telemetry/fetchcmd"),
			Err: errNoRequestID}
	}
	return resp.RequestID, nil
}

var errNoRequestID = errors.New("controller returned no request id")

// pollCommand polls until the job reports success, the attempts run out, a
// poll request fails, or ctx is cancelled. A poll failure aborts immediately;
// only the not-yet-complete case repeats.
func (c *Client) pollCommand(ctx context.Context, requestID string) (string, error) {
	path := "/api/telemetry/fetchcmd/" + requestID + "?keep=true"

	for attempt := 0; attempt < c.pollAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var resp pollResponse
		if err := c.doJSON(ctx, "poll", http.MethodGet, path, nil, &resp); err != nil {
			return "", err
		}
		if resp.Result == "success" {
			return resp.Output, nil
		}

		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", ErrPollTimeout
}

// cleanupCommand deletes a finished job. Best effort: a failed delete is
// swallowed, never retried, and never fails the command.
func (c *Client) cleanupCommand(requestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	body := map[string]string{"request_id": requestID}
	_ = c.doJSON(ctx, "cleanup", http.MethodDelete, "/api/telemetry/fetchcmd/"+requestID, body, nil)
}
