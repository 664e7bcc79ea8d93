package auth

import (
	"context"
	"regexp"

	"geodash/internal/apiclient"
	"geodash/internal/ipecho"
	"geodash/internal/logger"
)

var bearerPrefix = regexp.MustCompile(`(?i)^Bearer\s+`)

// The store is what the API client draws its auth headers from.
var _ apiclient.TokenSource = (*TokenStore)(nil)

// Candidate body fields the token may arrive under, in order.
var tokenFields = []string{"token", "accessToken", "jwt"}

// LoginResult reports the outcome of a login attempt. The backend can
// accept credentials yet hand back no token anywhere; TokenAcquired
// makes that case explicit instead of leaving callers to infer success
// from the absence of an error.
type LoginResult struct {
	TokenAcquired bool
	Body          map[string]any
}

// Service drives the session lifecycle against the backend.
type Service struct {
	client   *apiclient.Client
	tokens   *TokenStore
	resolver *ipecho.Resolver
	log      *logger.Logger
}

func NewService(client *apiclient.Client, tokens *TokenStore, resolver *ipecho.Resolver, log *logger.Logger) *Service {
	return &Service{
		client:   client,
		tokens:   tokens,
		resolver: resolver,
		log:      log.WithComponent("auth"),
	}
}

// Login resolves the caller's public IP best-effort, posts the
// credentials, and persists whatever token the response carries. The
// IP resolution failing never blocks the login; the field is simply
// omitted.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req := apiclient.LoginRequest{Email: email, Password: password}

	if ip, err := s.resolver.Resolve(ctx); err == nil {
		req.IP = ip
	} else {
		s.log.Debug().Err(err).Msg("could not resolve public ip, omitting from login")
	}

	reply, err := s.client.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	token := extractToken(reply)
	if token == "" {
		s.log.Warn().Msg("login succeeded but no token was found in the response")
		return &LoginResult{TokenAcquired: false, Body: reply.Body}, nil
	}

	if err := s.tokens.Set(token); err != nil {
		return nil, err
	}
	return &LoginResult{TokenAcquired: true, Body: reply.Body}, nil
}

// Logout notifies the backend best-effort and always clears the local
// token, network failure or not.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
	}
	return s.tokens.Clear()
}

func (s *Service) IsAuthenticated() bool {
	return s.tokens.IsAuthenticated()
}

// extractToken checks the known body fields in order, then the
// Authorization response header with its Bearer prefix stripped.
func extractToken(reply *apiclient.LoginReply) string {
	for _, field := range tokenFields {
		if tok, ok := reply.Body[field].(string); ok && tok != "" {
			return tok
		}
	}
	if reply.AuthHeader != "" {
		return bearerPrefix.ReplaceAllString(reply.AuthHeader, "")
	}
	return ""
}
