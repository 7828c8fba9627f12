package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/expo-push-api/internal/domain"
)

// DeviceRepo provides typed DynamoDB operations for the devices table.
// The table is keyed by token, which makes token uniqueness a storage guarantee.
type DeviceRepo struct {
	client    API
	tableName string
}

func NewDeviceRepo(client API, tableName string) *DeviceRepo {
	return &DeviceRepo{client: client, tableName: tableName}
}

// Register stores d unless its token is already present, in which case the
// stored device is returned unchanged. A single conditional PutItem decides.
func (r *DeviceRepo) Register(ctx context.Context, d *domain.Device) (*domain.Device, error) {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return nil, fmt.Errorf("marshal device: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                           aws.String(r.tableName),
		Item:                                item,
		ConditionExpression:                 aws.String("attribute_not_exists(#t)"),
		ExpressionAttributeNames:            map[string]string{"#t": fieldToken},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return d, nil
	}
	old, ok := conditionFailed(err)
	if !ok {
		return nil, err
	}
	if len(old) == 0 {
		// Emulators may not echo the stored item back.
		return r.GetByToken(ctx, d.Token)
	}
	var existing domain.Device
	if err := attributevalue.UnmarshalMap(old, &existing); err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *DeviceRepo) GetByToken(ctx context.Context, token string) (*domain.Device, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldToken, token),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("device not found: %w", domain.ErrNotFound)
	}
	var d domain.Device
	if err := attributevalue.UnmarshalMap(out.Item, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// List scans every device page and returns them in registration order.
func (r *DeviceRepo) List(ctx context.Context) ([]domain.Device, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:      aws.String(r.tableName),
		ConsistentRead: aws.Bool(true),
	})
	devices := []domain.Device{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan devices: %w", err)
		}
		var page []domain.Device
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		devices = append(devices, page...)
	}
	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].CreatedAt.Equal(devices[j].CreatedAt) {
			return devices[i].DeviceID < devices[j].DeviceID
		}
		return devices[i].CreatedAt.Before(devices[j].CreatedAt)
	})
	return devices, nil
}

// DeleteByToken removes the device. Deleting an absent token is not an error.
func (r *DeviceRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey(fieldToken, token),
	})
	return err
}
