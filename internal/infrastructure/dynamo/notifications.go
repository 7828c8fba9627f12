package dynamo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/expo-push-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	client    API
	tableName string
}

func NewNotificationRepo(client API, tableName string) *NotificationRepo {
	return &NotificationRepo{client: client, tableName: tableName}
}

func (r *NotificationRepo) Put(ctx context.Context, n *domain.Notification) error {
	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *NotificationRepo) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldNotificationID, notificationID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification %s not found: %w", notificationID, domain.ErrNotFound)
	}
	return unmarshalNotification(out.Item)
}

// List returns every notification, newest first.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	notifications := []domain.Notification{}
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan notifications: %w", err)
		}
		var page []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		notifications = append(notifications, page...)
	}
	sort.SliceStable(notifications, func(i, j int) bool {
		a, b := notifications[i], notifications[j]
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.NotificationID > b.NotificationID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return notifications, nil
}

// Update applies a partial SET to a DRAFT notification and returns the stored
// record. A notification that is no longer a DRAFT yields ErrConflict.
func (r *NotificationRepo) Update(ctx context.Context, notificationID string, updates map[string]interface{}) (*domain.Notification, error) {
	updates[fieldUpdatedAt] = time.Now().UTC()
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 strKey(fieldNotificationID, notificationID),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String(draftCondition),
		ExpressionAttributeNames:            withDraftNames(ue.Names),
		ExpressionAttributeValues:           withDraftValues(ue.Values),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return nil, draftConditionError(err, notificationID, "published notifications cannot be edited")
	}
	return unmarshalNotification(out.Attributes)
}

// MarkPublished flips status DRAFT -> PUBLISHED in one conditional write, so two
// concurrent publishes cannot both succeed.
func (r *NotificationRepo) MarkPublished(ctx context.Context, notificationID string, at time.Time) (*domain.Notification, error) {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldStatus:    domain.StatusPublished,
		fieldUpdatedAt: at,
	})
	if err != nil {
		return nil, err
	}
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 strKey(fieldNotificationID, notificationID),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String(draftCondition),
		ExpressionAttributeNames:            withDraftNames(ue.Names),
		ExpressionAttributeValues:           withDraftValues(ue.Values),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		return nil, draftConditionError(err, notificationID, "notification is already published")
	}
	return unmarshalNotification(out.Attributes)
}

// draftCondition guards writes that are only legal while a notification is a DRAFT.
// #pk and #st are bound by withDraftNames, never by buildUpdateExpr.
const draftCondition = "attribute_exists(#pk) AND #st = :draft"

func withDraftNames(names map[string]string) map[string]string {
	names["#pk"] = fieldNotificationID
	names["#st"] = fieldStatus
	return names
}

func withDraftValues(values map[string]types.AttributeValue) map[string]types.AttributeValue {
	values[":draft"] = &types.AttributeValueMemberS{Value: string(domain.StatusDraft)}
	return values
}

// draftConditionError maps a failed draftCondition to ErrNotFound when no item was
// stored and to ErrConflict when the stored item is no longer a DRAFT.
func draftConditionError(err error, notificationID, conflict string) error {
	old, ok := conditionFailed(err)
	if !ok {
		return err
	}
	if len(old) == 0 {
		return fmt.Errorf("notification %s not found: %w", notificationID, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", conflict, domain.ErrConflict)
}

// Delete hard-deletes the notification; a missing id maps to ErrNotFound.
func (r *NotificationRepo) Delete(ctx context.Context, notificationID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey(fieldNotificationID, notificationID),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldNotificationID},
	})
	if _, ok := conditionFailed(err); ok {
		return fmt.Errorf("notification %s not found: %w", notificationID, domain.ErrNotFound)
	}
	return err
}

func unmarshalNotification(item map[string]types.AttributeValue) (*domain.Notification, error) {
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(item, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
