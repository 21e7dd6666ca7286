package imds

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	awsimds "github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

const defaultTimeout = 1 * time.Second

// IdentityProvider resolves instance identity from the EC2 Instance
// Metadata Service. The SDK client handles the IMDSv2 token exchange
// (PUT for a session token, then token-authenticated GETs).
type IdentityProvider struct {
	client  *awsimds.Client
	timeout time.Duration
	logger  *logger.Logger
}

// Config holds IMDS provider settings.
type Config struct {
	// Timeout bounds the whole identity fetch. Off-EC2 hosts fail fast
	// instead of stalling the sampling cycle.
	Timeout time.Duration
}

// NewIdentityProvider creates a provider backed by the real metadata endpoint.
func NewIdentityProvider(ctx context.Context, cfg Config, logger *logger.Logger) (*IdentityProvider, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &IdentityProvider{
		client:  awsimds.NewFromConfig(awsCfg),
		timeout: timeout,
		logger:  logger,
	}, nil
}

// NewIdentityProviderWithClient creates a provider with a pre-built client (for tests).
func NewIdentityProviderWithClient(client *awsimds.Client, timeout time.Duration, logger *logger.Logger) *IdentityProvider {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &IdentityProvider{client: client, timeout: timeout, logger: logger}
}

// FetchIdentity resolves all identity fields. Each field degrades to
// "unknown" independently, so a partial IMDS outage still yields a
// usable identity. The returned error lists what degraded.
func (p *IdentityProvider) FetchIdentity(ctx context.Context) (entity.InstanceIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	identity := entity.UnknownIdentity()
	var degraded []string

	fields := []struct {
		path string
		dest *string
	}{
		{"instance-id", &identity.ID},
		{"instance-type", &identity.Type},
		{"placement/availability-zone", &identity.AvailabilityZone},
		{"local-ipv4", &identity.PrivateIP},
	}

	for _, field := range fields {
		value, err := p.fetchPath(ctx, field.path)
		if err != nil {
			degraded = append(degraded, field.path)
			continue
		}
		*field.dest = value
	}

	if region, err := p.client.GetRegion(ctx, &awsimds.GetRegionInput{}); err != nil {
		degraded = append(degraded, "region")
	} else {
		identity.Region = region.Region
	}

	if len(degraded) > 0 {
		return identity, fmt.Errorf("metadata fields degraded to unknown: %s", strings.Join(degraded, ", "))
	}
	return identity, nil
}

// fetchPath reads a single metadata path as a trimmed string.
func (p *IdentityProvider) fetchPath(ctx context.Context, path string) (string, error) {
	out, err := p.client.GetMetadata(ctx, &awsimds.GetMetadataInput{Path: path})
	if err != nil {
		return "", err
	}
	defer out.Content.Close()

	raw, err := io.ReadAll(out.Content)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(string(raw))
	if value == "" {
		return "", fmt.Errorf("empty metadata value for %s", path)
	}
	return value, nil
}
