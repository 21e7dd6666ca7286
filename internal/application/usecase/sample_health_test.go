package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/fleet-status/internal/application/port"
	"github.com/dreschagin/fleet-status/internal/domain/entity"
	"github.com/dreschagin/fleet-status/internal/domain/valueobject"
	"github.com/dreschagin/fleet-status/pkg/logger"
)

type stubIdentityProvider struct {
	identity entity.InstanceIdentity
	err      error
}

func (s *stubIdentityProvider) FetchIdentity(ctx context.Context) (entity.InstanceIdentity, error) {
	return s.identity, s.err
}

type stubProber struct {
	status *entity.WebServerStatus
	err    error
}

func (s *stubProber) Probe(ctx context.Context) (*entity.WebServerStatus, error) {
	return s.status, s.err
}

type stubMarkerReader struct {
	lastSync time.Time
	err      error
}

func (s *stubMarkerReader) LastSync(ctx context.Context) (time.Time, error) {
	return s.lastSync, s.err
}

type stubCollector struct {
	metrics entity.SystemMetrics
	err     error
}

func (s *stubCollector) Collect(ctx context.Context) (entity.SystemMetrics, error) {
	return s.metrics, s.err
}

type memSnapshotWriter struct {
	last *entity.HealthSnapshot
	err  error
}

func (w *memSnapshotWriter) Write(ctx context.Context, snapshot *entity.HealthSnapshot) error {
	if w.err != nil {
		return w.err
	}
	w.last = snapshot
	return nil
}

func newSampleUseCase(
	identity port.IdentityProvider,
	prober port.WebServerProber,
	marker port.SyncMarkerReader,
	collector port.SystemCollector,
	writer port.SnapshotWriter,
) *SampleHealthUseCase {
	return NewSampleHealthUseCase(
		identity, prober, marker, collector, writer,
		nil, nil, nil,
		logger.New("error"),
	)
}

func healthyProber() *stubProber {
	return &stubProber{status: &entity.WebServerStatus{Status: "active", Responding: true}}
}

func TestSampleHealth_HealthyNode(t *testing.T) {
	writer := &memSnapshotWriter{}
	uc := newSampleUseCase(
		&stubIdentityProvider{identity: entity.InstanceIdentity{
			ID:               "i-0abc",
			Type:             "t3.micro",
			AvailabilityZone: "us-gov-west-1a",
			Region:           "us-gov-west-1",
			PrivateIP:        "10.0.1.5",
		}},
		healthyProber(),
		&stubMarkerReader{lastSync: time.Now().Add(-2 * time.Minute)},
		&stubCollector{metrics: entity.SystemMetrics{
			LoadAverage:       "0.42, 0.37, 0.30",
			MemoryUsedPercent: 41.5,
			DiskUsed:          "38%",
			UptimeSeconds:     86400,
		}},
		writer,
	)

	snapshot, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Status != valueobject.StatusHealthy {
		t.Fatalf("expected healthy status, got %s", snapshot.Status)
	}
	if snapshot.Instance.ID != "i-0abc" {
		t.Fatalf("expected instance id i-0abc, got %s", snapshot.Instance.ID)
	}
	if writer.last != snapshot {
		t.Fatal("expected snapshot to be written")
	}

	sync := snapshot.Services.ContentSync
	if sync.Status != "ok" {
		t.Fatalf("expected sync status ok, got %s", sync.Status)
	}
	if sync.SecondsSinceLastSync == nil {
		t.Fatal("expected known sync age")
	}
	if age := *sync.SecondsSinceLastSync; age < 115 || age > 125 {
		t.Fatalf("expected sync age around 120s, got %f", age)
	}
}

func TestSampleHealth_IdentityFailureDegradesToUnknown(t *testing.T) {
	writer := &memSnapshotWriter{}
	uc := newSampleUseCase(
		&stubIdentityProvider{identity: entity.UnknownIdentity(), err: errors.New("imds timeout")},
		healthyProber(),
		&stubMarkerReader{lastSync: time.Now()},
		&stubCollector{},
		writer,
	)

	snapshot, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snapshot.Instance.ID != "unknown" {
		t.Fatalf("expected unknown instance id, got %s", snapshot.Instance.ID)
	}
	if snapshot.Status != valueobject.StatusHealthy {
		t.Fatalf("identity failure must not change status, got %s", snapshot.Status)
	}
	if writer.last == nil {
		t.Fatal("snapshot emission must not be blocked by identity failure")
	}
}

func TestSampleHealth_MissingMarkerGivesUnknownSync(t *testing.T) {
	writer := &memSnapshotWriter{}
	uc := newSampleUseCase(
		&stubIdentityProvider{identity: entity.UnknownIdentity()},
		healthyProber(),
		&stubMarkerReader{err: port.ErrSyncMarkerUnavailable},
		&stubCollector{},
		writer,
	)

	snapshot, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sync := snapshot.Services.ContentSync
	if sync.Status != "unknown" {
		t.Fatalf("expected unknown sync status, got %s", sync.Status)
	}
	if sync.SecondsSinceLastSync != nil {
		t.Fatal("expected nil sync age for missing marker")
	}
	if snapshot.Status != valueobject.StatusHealthy {
		t.Fatalf("sync staleness must not change overall status, got %s", snapshot.Status)
	}
}

func TestSampleHealth_WebServerStates(t *testing.T) {
	tests := []struct {
		name   string
		status *entity.WebServerStatus
		want   valueobject.HealthStatus
	}{
		{
			name:   "active and responding",
			status: &entity.WebServerStatus{Status: "active", Responding: true},
			want:   valueobject.StatusHealthy,
		},
		{
			name:   "active but not responding",
			status: &entity.WebServerStatus{Status: "active", Responding: false},
			want:   valueobject.StatusDegraded,
		},
		{
			name:   "inactive",
			status: &entity.WebServerStatus{Status: "inactive", Responding: false},
			want:   valueobject.StatusUnhealthy,
		},
		{
			name:   "probe degraded",
			status: &entity.WebServerStatus{Status: "unknown"},
			want:   valueobject.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newSampleUseCase(
				&stubIdentityProvider{identity: entity.UnknownIdentity()},
				&stubProber{status: tt.status},
				&stubMarkerReader{lastSync: time.Now()},
				&stubCollector{},
				&memSnapshotWriter{},
			)

			snapshot, err := uc.Execute(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if snapshot.Status != tt.want {
				t.Fatalf("expected status %s, got %s", tt.want, snapshot.Status)
			}
		})
	}
}

func TestSampleHealth_WriterFailureIsFatal(t *testing.T) {
	uc := newSampleUseCase(
		&stubIdentityProvider{identity: entity.UnknownIdentity()},
		healthyProber(),
		&stubMarkerReader{lastSync: time.Now()},
		&stubCollector{},
		&memSnapshotWriter{err: errors.New("disk full")},
	)

	if _, err := uc.Execute(context.Background()); err == nil {
		t.Fatal("expected error when snapshot cannot be written")
	}
}

func TestSampleHealth_NegativeSyncAgeClampedToZero(t *testing.T) {
	writer := &memSnapshotWriter{}
	uc := newSampleUseCase(
		&stubIdentityProvider{identity: entity.UnknownIdentity()},
		healthyProber(),
		&stubMarkerReader{lastSync: time.Now().Add(30 * time.Second)},
		&stubCollector{},
		writer,
	)

	snapshot, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	age := snapshot.Services.ContentSync.SecondsSinceLastSync
	if age == nil {
		t.Fatal("expected known sync age")
	}
	if *age != 0 {
		t.Fatalf("expected clock skew clamped to 0, got %f", *age)
	}
}
