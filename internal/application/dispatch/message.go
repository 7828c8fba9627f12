package dispatch

import (
	"encoding/json"
	"regexp"

	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/infrastructure/expo"
)

const (
	defaultSound    = "default"
	androidPriority = "high"
)

var tokenPattern = regexp.MustCompile(`^(ExponentPushToken|ExpoPushToken)\[.+\]$`)

// ValidToken reports whether token has the shape the push gateway accepts.
func ValidToken(token string) bool {
	return tokenPattern.MatchString(token)
}

// buildMessage renders n for one device, adding the platform-specific fields.
func buildMessage(d domain.Device, n *domain.Notification) expo.Message {
	msg := expo.Message{
		To:    d.Token,
		Title: n.Title,
		Body:  n.Body,
		Data:  decodeData(n.Data),
		Sound: defaultSound,
	}
	if n.TTL != nil && *n.TTL > 0 {
		msg.TTL = *n.TTL
	}

	switch d.Platform {
	case domain.PlatformIOS:
		if n.IOSMessageSubtitle != nil {
			msg.Subtitle = *n.IOSMessageSubtitle
		}
		if n.BadgeCount != nil {
			badge := *n.BadgeCount
			msg.Badge = &badge
		}
	case domain.PlatformAndroid:
		if n.AndroidChannelID != nil {
			msg.ChannelID = *n.AndroidChannelID
		}
		msg.Priority = androidPriority
	}
	return msg
}

// decodeData always yields an object. Stored data may be an object, a JSON
// string holding an object, or something unusable.
func decodeData(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]interface{}{}
	}
	switch t := v.(type) {
	case map[string]interface{}:
		return t
	case string:
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(t), &obj); err != nil || obj == nil {
			return map[string]interface{}{}
		}
		return obj
	}
	return map[string]interface{}{}
}
