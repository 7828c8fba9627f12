package dynamo

// DynamoDB attribute names used in keys and expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldToken          = "token"
	fieldNotificationID = "notification_id"
	fieldStatus         = "status"
	fieldUpdatedAt      = "updated_at"
)
