// Package ipecho resolves the caller's public IP address via a short
// ordered list of third-party echo services. Resolution is strictly
// best-effort: every attempt is independently time-bounded and the
// first service that answers wins.
package ipecho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"geodash/internal/logger"
)

// DefaultServices are tried in order. They answer with the caller's
// address under an "ip" or "origin" field.
var DefaultServices = []string{
	"https://api.ipify.org?format=json",
	"https://ipapi.co/json/",
	"https://httpbin.org/ip",
}

const attemptTimeout = 5 * time.Second

type Resolver struct {
	Services []string
	Client   *http.Client
	Log      *logger.Logger
}

func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{
		Services: DefaultServices,
		Client:   &http.Client{},
		Log:      log.WithComponent("ipecho"),
	}
}

// Resolve returns the caller's public IP, or an error when every
// service failed. Callers treat the error as non-fatal.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	for _, svc := range r.Services {
		ip, err := r.attempt(ctx, svc)
		if err != nil {
			r.Log.Debug().Err(err).Str("service", svc).Msg("ip echo attempt failed")
			continue
		}
		if ip != "" {
			return ip, nil
		}
	}
	return "", fmt.Errorf("no ip echo service responded")
}

func (r *Resolver) attempt(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ip echo service %s: status %d", url, resp.StatusCode)
	}

	var body struct {
		IP     string `json:"ip"`
		Origin string `json:"origin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	if body.IP != "" {
		return body.IP, nil
	}
	return body.Origin, nil
}
