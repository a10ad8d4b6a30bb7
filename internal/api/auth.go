package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Password exchanges a username and password for an access token. On success
// the token is stored on the client and used by every later request.
func (s AuthService) Password(ctx context.Context, username, password string) (string, error) {
	resp, err := s.call(ctx, MethodAuthPassword, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	return s.acceptToken(resp)
}

// ExternalToken exchanges an email vouched for by an external sign-in
// provider for an access token.
func (s AuthService) ExternalToken(ctx context.Context, email string) (string, error) {
	resp, err := s.call(ctx, MethodAuthExternal, map[string]string{
		"email": email,
	})
	if err != nil {
		return "", err
	}
	return s.acceptToken(resp)
}

func (s AuthService) acceptToken(resp *Response) (string, error) {
	token, err := tokenFromResult(resp.Result)
	if err != nil {
		return "", err
	}
	s.Store.SetAccessToken(token)
	return token, nil
}

func tokenFromResult(raw json.RawMessage) (string, error) {
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", fmt.Errorf("unexpected token format: %s", string(raw))
		}
		token = n.String()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("server returned an empty access token")
	}
	return token, nil
}
