// ABOUTME: Round tripper that attaches the session token to outgoing requests
// ABOUTME: Reports 401/403 responses so the session can be torn down globally

package client

import "net/http"

// TokenSource yields the current bearer token, or "" when there is no session
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

// Token calls f
func (f TokenFunc) Token() string { return f() }

// authTransport applies the credential policy to every request made through
// the client, whichever caller issued it
type authTransport struct {
	base          http.RoundTripper
	tokens        TokenSource
	onAuthFailure func(status int, token string)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var token string
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		if t.onAuthFailure != nil {
			t.onAuthFailure(resp.StatusCode, token)
		}
	}
	return resp, nil
}
