package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/dreschagin/fleet-status/internal/domain/entity"
)

const (
	attrInstanceID = "instance_id"
	attrStatus     = "status"
	attrSnapshot   = "snapshot"
	attrUpdatedAt  = "updated_at"
)

// Config holds DynamoDB fleet registry settings.
type Config struct {
	TableName       string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// FleetRegistry keeps the latest snapshot per instance in a DynamoDB table.
// Each PutSnapshot overwrites the instance's item, so the table always
// holds exactly one row per node.
type FleetRegistry struct {
	client    *dynamodb.Client
	tableName string
}

// NewFleetRegistry creates a registry backed by DynamoDB.
func NewFleetRegistry(ctx context.Context, cfg Config) (*FleetRegistry, error) {
	if strings.TrimSpace(cfg.TableName) == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	if strings.TrimSpace(cfg.Region) == "" {
		cfg.Region = "us-east-1"
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	accessKeyID := strings.TrimSpace(cfg.AccessKeyID)
	secretAccessKey := strings.TrimSpace(cfg.SecretAccessKey)
	if accessKeyID != "" || secretAccessKey != "" {
		if accessKeyID == "" || secretAccessKey == "" {
			return nil, fmt.Errorf("both dynamodb access key id and secret access key are required for static credentials")
		}
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"",
		)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws config for dynamodb: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(options *dynamodb.Options) {
		if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
			options.BaseEndpoint = &endpoint
		}
	})

	return &FleetRegistry{
		client:    client,
		tableName: cfg.TableName,
	}, nil
}

// PutSnapshot overwrites the instance's latest snapshot.
func (r *FleetRegistry) PutSnapshot(ctx context.Context, snapshot *entity.HealthSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot is required")
	}
	if snapshot.Instance.ID == "" || snapshot.Instance.ID == "unknown" {
		// Without a real instance id the item would collide across nodes
		return fmt.Errorf("cannot register snapshot without instance id")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	item := map[string]types.AttributeValue{
		attrInstanceID: &types.AttributeValueMemberS{Value: snapshot.Instance.ID},
		attrStatus:     &types.AttributeValueMemberS{Value: snapshot.Status.String()},
		attrSnapshot:   &types.AttributeValueMemberS{Value: string(payload)},
		attrUpdatedAt:  &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &r.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put snapshot for %s: %w", snapshot.Instance.ID, err)
	}

	return nil
}

// ListSnapshots returns the latest snapshot of every registered instance.
// The table is one item per node, so a scan stays small.
func (r *FleetRegistry) ListSnapshots(ctx context.Context) ([]*entity.HealthSnapshot, error) {
	var snapshots []*entity.HealthSnapshot
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &r.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan fleet registry: %w", err)
		}

		for _, item := range out.Items {
			raw, ok := item[attrSnapshot].(*types.AttributeValueMemberS)
			if !ok {
				continue
			}

			var snapshot entity.HealthSnapshot
			if err := json.Unmarshal([]byte(raw.Value), &snapshot); err != nil {
				// Skip unreadable items instead of failing the whole listing
				continue
			}
			snapshots = append(snapshots, &snapshot)
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return snapshots, nil
}
