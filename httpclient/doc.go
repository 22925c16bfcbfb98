// Package httpclient is a small HTTP client for JSON and multipart calls
// against a single base URL.
//
//	c, err := httpclient.New(httpclient.Config{BaseURL: "http://localhost:3001/api"})
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/summarize-transcript",
//	    Body:   payload,
//	})
//
// Non-2xx responses are returned together with an *Error that keeps the
// status and body, so callers can read the server's own error message.
package httpclient
