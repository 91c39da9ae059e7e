package webhook

import (
	"fmt"
	"strings"
)

// path walks nested objects; it returns nil as soon as a step is missing.
func path(v interface{}, keys ...string) interface{} {
	for _, k := range keys {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v = m[k]
	}
	return v
}

func str(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%.0f", s))
	}
	return ""
}

func boolean(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	}
	return false
}

func list(v interface{}) []interface{} {
	switch l := v.(type) {
	case []interface{}:
		return l
	case map[string]interface{}:
		return []interface{}{l}
	}
	return nil
}

// messageText unwraps the text of a message in the known shapes, in order:
// plain string, conversation, extendedTextMessage.text, text.body,
// imageMessage.caption, videoMessage.caption, caption.
func messageText(msg interface{}) string {
	if s, ok := msg.(string); ok {
		return strings.TrimSpace(s)
	}
	candidates := [][]string{
		{"conversation"},
		{"extendedTextMessage", "text"},
		{"text", "body"},
		{"text"},
		{"imageMessage", "caption"},
		{"videoMessage", "caption"},
		{"caption"},
	}
	for _, p := range candidates {
		if s := str(path(msg, p...)); s != "" {
			return s
		}
	}
	return ""
}

// normalizeJID keeps the user part of a WhatsApp JID ("549351@s.whatsapp.net").
func normalizeJID(jid string) string {
	jid = strings.TrimSpace(jid)
	if i := strings.IndexAny(jid, "@:"); i >= 0 {
		jid = jid[:i]
	}
	return strings.TrimPrefix(jid, "+")
}

func isGroupJID(jid string) bool {
	return strings.HasSuffix(jid, "@g.us")
}
