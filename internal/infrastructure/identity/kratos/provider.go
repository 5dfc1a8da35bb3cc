// Package kratos implements the identity provider port against the Ory Kratos admin API.
package kratos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	kratosclient "github.com/ory/kratos-client-go"

	"github.com/devilmonastery/trainerhub/internal/config"
	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

// Provider creates and deletes identities through the Kratos admin API.
// It holds the admin credentials, so any caller can use it without further checks.
type Provider struct {
	admin    *kratosclient.APIClient
	schemaID string
	log      *slog.Logger
}

// NewProvider builds a provider from config. base is the transport to wrap;
// nil means http.DefaultTransport.
func NewProvider(cfg config.KratosConfig, base http.RoundTripper) (*Provider, error) {
	u, err := url.Parse(cfg.AdminURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid Kratos admin URL: %q", cfg.AdminURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	adminConfig := kratosclient.NewConfiguration()
	adminConfig.Servers = kratosclient.ServerConfigurations{{URL: cfg.AdminURL}}
	adminConfig.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: NewMetricsTransport(base),
	}
	adminConfig.UserAgent = "trainerhub"
	if cfg.AdminToken != "" {
		adminConfig.AddDefaultHeader("Authorization", "Bearer "+cfg.AdminToken)
	}

	log := slog.Default().With(slog.String("component", "kratos"))
	log.Info("kratos identity provider initialized",
		slog.String("admin_url", cfg.AdminURL),
		slog.String("schema_id", cfg.SchemaID))

	return &Provider{
		admin:    kratosclient.NewAPIClient(adminConfig),
		schemaID: cfg.SchemaID,
		log:      log,
	}, nil
}

// CreateUser creates a password identity. With preConfirmed the email address is
// imported as already verified.
func (p *Provider) CreateUser(ctx context.Context, email, password string, preConfirmed bool) (*entities.Identity, error) {
	body := kratosclient.NewCreateIdentityBody(p.schemaID, map[string]interface{}{
		"email": email,
	})
	body.Credentials = &kratosclient.IdentityWithCredentials{
		Password: &kratosclient.IdentityWithCredentialsPassword{
			Config: &kratosclient.IdentityWithCredentialsPasswordConfig{
				Password: &password,
			},
		},
	}
	if preConfirmed {
		body.VerifiableAddresses = []kratosclient.VerifiableIdentityAddress{{
			Value:    email,
			Via:      "email",
			Verified: true,
			Status:   "completed",
		}}
	}

	created, resp, err := p.admin.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(*body).Execute()
	if err != nil {
		err = translateError(err, resp)
		p.log.Debug("kratos create identity failed",
			slog.String("email", email),
			slog.Int("status", statusOf(resp)),
			slog.String("error", err.Error()))
		return nil, err
	}

	identity := &entities.Identity{
		ID:        created.GetId(),
		Email:     email,
		Confirmed: preConfirmed,
		CreatedAt: created.GetCreatedAt(),
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now()
	}
	return identity, nil
}

// DeleteUser permanently removes an identity
func (p *Provider) DeleteUser(ctx context.Context, identityID string) error {
	resp, err := p.admin.IdentityAPI.DeleteIdentity(ctx, identityID).Execute()
	if err != nil {
		return translateError(err, resp)
	}
	return nil
}

// kratosErrorBody is the JSON error envelope returned by the admin API
type kratosErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error"`
}

// translateError turns a client error into a readable one, wrapping the
// repository sentinels for conflicts and missing identities.
func translateError(err error, resp *http.Response) error {
	msg := err.Error()

	var apiErr *kratosclient.GenericOpenAPIError
	if errors.As(err, &apiErr) {
		var body kratosErrorBody
		if jsonErr := json.Unmarshal(apiErr.Body(), &body); jsonErr == nil {
			switch {
			case body.Error.Reason != "":
				msg = body.Error.Reason
			case body.Error.Message != "":
				msg = body.Error.Message
			}
		}
	}

	switch statusOf(resp) {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", repositories.ErrIdentityExists, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", repositories.ErrIdentityNotFound, msg)
	case 0:
		return fmt.Errorf("kratos request failed: %w", err)
	default:
		return fmt.Errorf("kratos: %s", msg)
	}
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

var _ repositories.IdentityProvider = (*Provider)(nil)
