// Package identity contains the HTTP client for the campus identity
// service. The enrollment core only sees the ports.IdentityProvider
// contract; credential storage and password handling stay on the other
// side of this client.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/whiteboard/enrollment-service/internal/config"
	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

type HTTPProvider struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
}

var _ ports.IdentityProvider = (*HTTPProvider)(nil)

func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cb:      config.NewCircuitBreaker("IdentityProvider"),
	}
}

func (p *HTTPProvider) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	endpoint := fmt.Sprintf("%s/users?email=%s", p.baseURL, url.QueryEscape(email))
	body, status, err := p.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d: %s", status, body)
	}

	var ident domain.Identity
	if err := json.Unmarshal(body, &ident); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}
	return &ident, nil
}

func (p *HTTPProvider) CreateUser(ctx context.Context, user ports.NewUser) (*domain.Identity, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	body, status, err := p.do(ctx, http.MethodPost, p.baseURL+"/users", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d: %s", status, body)
	}

	var ident domain.Identity
	if err := json.Unmarshal(body, &ident); err != nil {
		return nil, fmt.Errorf("failed to decode identity: %w", err)
	}
	return &ident, nil
}

func (p *HTTPProvider) UsersInRole(ctx context.Context, role domain.Role) ([]domain.Identity, error) {
	endpoint := fmt.Sprintf("%s/roles/%s/users", p.baseURL, url.PathEscape(string(role)))
	body, status, err := p.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d: %s", status, body)
	}

	var idents []domain.Identity
	if err := json.Unmarshal(body, &idents); err != nil {
		return nil, fmt.Errorf("failed to decode identities: %w", err)
	}
	return idents, nil
}

func (p *HTTPProvider) Claims(ctx context.Context, userID string) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/claims", p.baseURL, url.PathEscape(userID))
	body, status, err := p.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("identity service returned %d: %s", status, body)
	}

	var claims map[string]string
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}
	return claims, nil
}

func (p *HTTPProvider) Delete(ctx context.Context, email string) error {
	endpoint := fmt.Sprintf("%s/users/%s", p.baseURL, url.PathEscape(email))
	body, status, err := p.do(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("identity service rejected deletion (%d): %s", status, body)
	}
	return nil
}

// do runs one request through the circuit breaker and returns the body
// and status. Transport failures trip the breaker; application-level
// statuses (404 and friends) do not.
func (p *HTTPProvider) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, int, error) {
	type response struct {
		body   []byte
		status int
	}

	result, err := p.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return response{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		return nil, 0, err
	}

	resp := result.(response)
	return resp.body, resp.status, nil
}
