package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/expo-push-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDeviceRepo_RegisterIsIdempotentPerToken(t *testing.T) {
	repo := NewDeviceRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	first, err := repo.Register(ctx, &domain.Device{DeviceID: "d1", Token: "ExponentPushToken[a]", Platform: domain.PlatformIOS, CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, "d1", first.DeviceID)

	second, err := repo.Register(ctx, &domain.Device{DeviceID: "d2", Token: "ExponentPushToken[a]", Platform: domain.PlatformAndroid, CreatedAt: now.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "d1", second.DeviceID)
	assert.Equal(t, domain.PlatformIOS, second.Platform)
	assert.True(t, now.Equal(second.CreatedAt))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeviceRepo_ConcurrentRegisterKeepsOneRecord(t *testing.T) {
	repo := NewDeviceRepo(openTestDB(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]string, 10)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d, err := repo.Register(ctx, &domain.Device{
				DeviceID: string(rune('a' + i)), Token: "ExponentPushToken[same]",
				Platform: domain.PlatformIOS, CreatedAt: time.Now(),
			})
			if assert.NoError(t, err) {
				ids[i] = d.DeviceID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeviceRepo_ListOrderAndDelete(t *testing.T) {
	repo := NewDeviceRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Register(ctx, &domain.Device{DeviceID: "b", Token: "t2", Platform: domain.PlatformIOS, CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)
	_, err = repo.Register(ctx, &domain.Device{DeviceID: "a", Token: "t1", Platform: domain.PlatformAndroid, CreatedAt: base})
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "t1", all[0].Token)
	assert.Equal(t, "t2", all[1].Token)

	require.NoError(t, repo.DeleteByToken(ctx, "t1"))
	require.NoError(t, repo.DeleteByToken(ctx, "t1"))

	_, err = repo.GetByToken(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newDraft(id string, created time.Time) *domain.Notification {
	ttl := 60
	sub := "sub"
	return &domain.Notification{
		NotificationID:     id,
		Title:              "Title " + id,
		Body:               "Body",
		Data:               json.RawMessage(`{"k":"v"}`),
		TTL:                &ttl,
		IOSMessageSubtitle: &sub,
		Status:             domain.StatusDraft,
		CreatedAt:          created,
		UpdatedAt:          created,
	}
}

func TestNotificationRepo_PutGetRoundTrip(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)

	require.NoError(t, repo.Put(ctx, newDraft("n1", now)))

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Title n1", got.Title)
	assert.JSONEq(t, `{"k":"v"}`, string(got.Data))
	require.NotNil(t, got.TTL)
	assert.Equal(t, 60, *got.TTL)
	assert.Nil(t, got.BadgeCount)
	assert.Nil(t, got.AndroidChannelID)
	assert.Equal(t, "sub", *got.IOSMessageSubtitle)
	assert.True(t, now.Equal(got.CreatedAt))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationRepo_ListNewestFirst(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, newDraft("old", base)))
	require.NoError(t, repo.Put(ctx, newDraft("new", base.Add(500*time.Millisecond))))
	require.NoError(t, repo.Put(ctx, newDraft("mid", base.Add(50*time.Millisecond))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "new", list[0].NotificationID)
	assert.Equal(t, "mid", list[1].NotificationID)
	assert.Equal(t, "old", list[2].NotificationID)
}

func TestNotificationRepo_Update(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Put(ctx, newDraft("n1", created)))

	got, err := repo.Update(ctx, "n1", map[string]interface{}{
		domain.FieldTitle:      "New",
		domain.FieldBadgeCount: 3,
		domain.FieldData:       json.RawMessage(`{"x":1}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Body", got.Body)
	assert.Equal(t, 3, *got.BadgeCount)
	assert.JSONEq(t, `{"x":1}`, string(got.Data))
	assert.True(t, got.UpdatedAt.After(created))

	_, err = repo.Update(ctx, "missing", map[string]interface{}{domain.FieldTitle: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Update(ctx, "n1", map[string]interface{}{"status": "PUBLISHED"})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestNotificationRepo_MarkPublished(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, newDraft("n1", time.Now())))

	got, err := repo.MarkPublished(ctx, "n1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)

	_, err = repo.MarkPublished(ctx, "n1", time.Now())
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = repo.MarkPublished(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationRepo_UpdateAfterPublishIsConflict(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, newDraft("n1", time.Now())))
	_, err := repo.MarkPublished(ctx, "n1", time.Now())
	require.NoError(t, err)

	_, err = repo.Update(ctx, "n1", map[string]interface{}{domain.FieldTitle: "edited after send"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Title n1", stored.Title)
	assert.Equal(t, domain.StatusPublished, stored.Status)
}

func TestNotificationRepo_Delete(t *testing.T) {
	repo := NewNotificationRepo(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, newDraft("n1", time.Now())))

	require.NoError(t, repo.Delete(ctx, "n1"))
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), domain.ErrNotFound)
}
