package imds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	awsimds "github.com/aws/aws-sdk-go-v2/feature/ec2/imds"

	"github.com/dreschagin/fleet-status/pkg/logger"
)

const testToken = "test-imds-token"

// newMetadataServer fakes the IMDSv2 endpoint: a PUT token exchange
// followed by token-authenticated metadata reads.
func newMetadataServer(t *testing.T, values map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut && r.URL.Path == "/latest/api/token" {
			if r.Header.Get("X-aws-ec2-metadata-token-ttl-seconds") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			// Без TTL заголовка SDK отбрасывает выданный токен
			w.Header().Set("X-Aws-Ec2-Metadata-Token-Ttl-Seconds", "21600")
			w.Write([]byte(testToken))
			return
		}

		if r.Header.Get("X-aws-ec2-metadata-token") != testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		if r.URL.Path == "/latest/dynamic/instance-identity/document" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"region": "` + values["region"] + `"}`))
			return
		}

		key := strings.TrimPrefix(r.URL.Path, "/latest/meta-data/")
		value, ok := values[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(value))
	}))
}

func newTestProvider(endpoint string) *IdentityProvider {
	client := awsimds.New(awsimds.Options{Endpoint: endpoint})
	return NewIdentityProviderWithClient(client, 2*time.Second, logger.New("error"))
}

func TestFetchIdentity_AllFieldsResolved(t *testing.T) {
	server := newMetadataServer(t, map[string]string{
		"instance-id":                 "i-0123456789abcdef0",
		"instance-type":               "t3.micro",
		"placement/availability-zone": "us-gov-west-1a",
		"placement/region":            "us-gov-west-1",
		"local-ipv4":                  "10.0.1.5",
		"region":                      "us-gov-west-1",
	})
	defer server.Close()

	provider := newTestProvider(server.URL)

	identity, err := provider.FetchIdentity(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if identity.ID != "i-0123456789abcdef0" {
		t.Fatalf("expected instance id, got %s", identity.ID)
	}
	if identity.Type != "t3.micro" {
		t.Fatalf("expected instance type, got %s", identity.Type)
	}
	if identity.AvailabilityZone != "us-gov-west-1a" {
		t.Fatalf("expected availability zone, got %s", identity.AvailabilityZone)
	}
	if identity.Region != "us-gov-west-1" {
		t.Fatalf("expected region, got %s", identity.Region)
	}
	if identity.PrivateIP != "10.0.1.5" {
		t.Fatalf("expected private ip, got %s", identity.PrivateIP)
	}
}

func TestFetchIdentity_PartialOutageDegradesPerField(t *testing.T) {
	// instance-type deliberately missing
	server := newMetadataServer(t, map[string]string{
		"instance-id":                 "i-0123456789abcdef0",
		"placement/availability-zone": "us-gov-west-1a",
		"local-ipv4":                  "10.0.1.5",
		"region":                      "us-gov-west-1",
	})
	defer server.Close()

	provider := newTestProvider(server.URL)

	identity, err := provider.FetchIdentity(context.Background())
	if err == nil {
		t.Fatal("expected degradation error")
	}
	if !strings.Contains(err.Error(), "instance-type") {
		t.Fatalf("expected error to name the degraded field, got %v", err)
	}

	if identity.Type != "unknown" {
		t.Fatalf("expected unknown instance type, got %s", identity.Type)
	}
	if identity.ID != "i-0123456789abcdef0" {
		t.Fatalf("other fields must survive, got id %s", identity.ID)
	}
}

func TestFetchIdentity_EndpointUnreachable(t *testing.T) {
	// Closed server: connection refused immediately
	server := newMetadataServer(t, nil)
	endpoint := server.URL
	server.Close()

	provider := newTestProvider(endpoint)

	identity, err := provider.FetchIdentity(context.Background())
	if err == nil {
		t.Fatal("expected error for unreachable metadata service")
	}

	if identity.ID != "unknown" || identity.Region != "unknown" {
		t.Fatalf("expected fully unknown identity, got %+v", identity)
	}
}
