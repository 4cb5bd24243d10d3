package sources

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"solana-token-scanner/internal/domain"
	"solana-token-scanner/internal/observability"
)

const (
	defaultSNSBaseURL     = "https://sns-sdk-proxy.bonfida.workers.dev"
	defaultProfileBaseURL = "https://api.cardinal.so/metadata"
)

// SocialProfile is the resolved identity a social metadata service
// knows about an address.
type SocialProfile struct {
	Name   *string
	Avatar *string
	Links  domain.SocialLinks
}

// Social resolves name-service domains and social profiles for holder
// addresses. All lookups are optional data: failures yield empty
// results.
type Social struct {
	snsBase     string
	profileBase string
	httpc       *http.Client
	logger      *log.Logger
}

// SocialOptions configures the resolver.
type SocialOptions struct {
	SNSBaseURL     string
	ProfileBaseURL string
	HTTPClient     *http.Client
	Logger         *log.Logger
}

// NewSocial creates a social/domain resolver.
func NewSocial(opts SocialOptions) *Social {
	if opts.SNSBaseURL == "" {
		opts.SNSBaseURL = defaultSNSBaseURL
	}
	if opts.ProfileBaseURL == "" {
		opts.ProfileBaseURL = defaultProfileBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[social] ", log.LstdFlags)
	}
	return &Social{
		snsBase:     opts.SNSBaseURL,
		profileBase: opts.ProfileBaseURL,
		httpc:       opts.HTTPClient,
		logger:      opts.Logger,
	}
}

// Domains resolves name-service domains for an address, empty when the
// address has none or the resolver is unavailable.
func (s *Social) Domains(ctx context.Context, address string) []string {
	start := time.Now()
	var domains []string
	err := getJSON(ctx, s.httpc, s.snsBase+"/resolve/"+address, &domains)
	observability.RecordSourceRequest("sns", err, time.Since(start).Seconds())
	if err != nil {
		return nil
	}
	return domains
}

// Profile returns the social profile of an address, or nil when the
// service has no entry.
func (s *Social) Profile(ctx context.Context, address string) *SocialProfile {
	start := time.Now()

	var raw struct {
		DisplayName *string `json:"displayName"`
		Name        *string `json:"name"`
		Image       *string `json:"image"`
		Avatar      *string `json:"avatar"`
		Twitter     *string `json:"twitter"`
		Discord     *string `json:"discord"`
		Website     *string `json:"website"`
	}
	err := getJSON(ctx, s.httpc, s.profileBase+"/"+address, &raw)
	observability.RecordSourceRequest("social_profile", err, time.Since(start).Seconds())
	if err != nil {
		return nil
	}

	p := &SocialProfile{
		Name:   raw.DisplayName,
		Avatar: raw.Image,
		Links: domain.SocialLinks{
			Twitter: raw.Twitter,
			Discord: raw.Discord,
			Website: raw.Website,
		},
	}
	if p.Name == nil {
		p.Name = raw.Name
	}
	if p.Avatar == nil {
		p.Avatar = raw.Avatar
	}
	return p
}
