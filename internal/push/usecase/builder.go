package usecase

import (
	"strconv"

	"firebase.google.com/go/v4/messaging"

	pushdomain "pushgate-backend/internal/push/domain"
	"pushgate-backend/pkg/config"
)

// payload is the tri-platform message body, built once per send and shared
// by every recipient of that send.
type payload struct {
	Android *messaging.AndroidConfig
	APNS    *messaging.APNSConfig
	Webpush *messaging.WebpushConfig
}

// buildPayload assembles the platform configs from the descriptor, its
// per-platform override maps and the process defaults. Precedence, highest
// wins: platform notification field > platform override map entry > global
// data entry > platform default > global default. Pure: no I/O, no errors;
// empty optional fields are omitted.
func buildPayload(n *pushdomain.Notification, d *config.Defaults) payload {
	return payload{
		Android: buildAndroid(n, d),
		APNS:    buildAPNS(n, d),
		Webpush: buildWebpush(n, d),
	}
}

// buildAndroid carries the entire notification as a flat data payload so the
// receiving client fully controls rendering instead of relying on the
// transport's default display.
func buildAndroid(n *pushdomain.Notification, d *config.Defaults) *messaging.AndroidConfig {
	data := mergeMaps(n.Data, n.AndroidData)
	setIf(data, "title", n.Title)
	setIf(data, "body", n.Body)
	setIf(data, "icon", pick(n.Icon, d.Icon))
	setIf(data, "color", pick(n.Color, d.Color))
	data["sound"] = pick(n.Sound, d.Sound, "default")
	setIf(data, "click_action", n.Action)
	setIf(data, "tag", n.Tag)
	setIf(data, "channelId", pick(n.ChannelID, d.ChannelID))
	setIf(data, "priority", pick(n.Priority, d.Priority))
	setIf(data, "visibility", pick(n.Visibility, d.Visibility))
	setIf(data, "image-type", n.ImageType)
	setIf(data, "image", pick(n.Image, d.Image))
	setIf(data, "picture", pick(n.Picture, d.Picture))
	setIf(data, "summaryText", n.SummaryText)
	setIf(data, "style", n.Style)

	cfg := &messaging.AndroidConfig{
		Priority: pick(n.Priority, d.Priority),
		Data:     data,
	}
	if label := pick(n.AnalyticsLabel, d.AnalyticsLabel); label != "" {
		cfg.FCMOptions = &messaging.AndroidFCMOptions{AnalyticsLabel: label}
	}
	return cfg
}

func buildAPNS(n *pushdomain.Notification, d *config.Defaults) *messaging.APNSConfig {
	badge := n.Badge
	if badge == nil {
		badge = d.Badge
	}

	// Platform convention: sound file is the base name plus .caf, and the
	// empty string means a silent notification.
	sound := ""
	if name := pick(n.Sound, d.Sound); name != "" {
		sound = name + ".caf"
	}

	cfg := &messaging.APNSConfig{
		Headers: map[string]string{
			"apns-priority": d.APNSPriority,
		},
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{
				Alert: &messaging.ApsAlert{
					Title:       n.Title,
					Body:        n.Body,
					LaunchImage: pick(n.LaunchImage, d.LaunchImage),
				},
				Badge: badge,
				Sound: sound,
			},
			CustomData: toInterfaceMap(mergeMaps(d.Data, d.IOSData, n.Data, n.IOSData)),
		},
	}
	if label := pick(n.AnalyticsLabel, d.AnalyticsLabel); label != "" {
		cfg.FCMOptions = &messaging.APNSFCMOptions{AnalyticsLabel: label}
	}
	return cfg
}

// buildWebpush emits a data-only payload; the receiving service worker
// renders the notification itself.
func buildWebpush(n *pushdomain.Notification, d *config.Defaults) *messaging.WebpushConfig {
	data := mergeMaps(d.Data, d.WebData, n.Data, n.WebData)
	setIf(data, "badge", pick(n.WebBadge, d.WebBadge))
	setIf(data, "title", n.Title)
	setIf(data, "body", n.Body)
	setIf(data, "icon", pick(n.Image, d.Image))
	setIf(data, "image", n.Picture)
	setIf(data, "link", pick(n.Action, d.Action))

	cfg := &messaging.WebpushConfig{
		Headers: map[string]string{
			"Urgency": "high",
			"TTL":     strconv.Itoa(d.WebTTL),
		},
		Data: data,
	}
	if link := pick(n.Action, d.Action); link != "" {
		cfg.FCMOptions = &messaging.WebpushFCMOptions{Link: link}
	}
	return cfg
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// mergeMaps overlays the maps left to right; later maps win.
func mergeMaps(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

func setIf(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func toInterfaceMap(m map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
