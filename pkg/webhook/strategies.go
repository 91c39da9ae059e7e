package webhook

// evolutionUpsert reads Evolution API "messages.upsert" events, where data
// holds the key and message of one message (or a list of them).
type evolutionUpsert struct{}

func (evolutionUpsert) Name() string { return "evolution_upsert" }

func (evolutionUpsert) Extract(ev event) ([]Envelope, bool) {
	items := list(ev["data"])
	var out []Envelope
	for _, item := range items {
		jid := str(path(item, "key", "remoteJid"))
		if jid == "" {
			continue
		}
		out = append(out, keyedMessage(item, jid))
	}
	return out, len(out) > 0
}

// baileysMessages reads raw Baileys "messages" arrays, at the top level or
// under data.
type baileysMessages struct{}

func (baileysMessages) Name() string { return "baileys_messages" }

func (baileysMessages) Extract(ev event) ([]Envelope, bool) {
	items := list(ev["messages"])
	if items == nil {
		items = list(path(ev, "data", "messages"))
	}
	if items == nil {
		return nil, false
	}
	out := make([]Envelope, 0, len(items))
	for _, item := range items {
		out = append(out, keyedMessage(item, str(path(item, "key", "remoteJid"))))
	}
	return out, true
}

func keyedMessage(item interface{}, jid string) Envelope {
	from := normalizeJID(jid)
	if isGroupJID(jid) {
		from = normalizeJID(str(path(item, "key", "participant")))
	}
	return Envelope{
		From:      from,
		MessageID: str(path(item, "key", "id")),
		Text:      messageText(path(item, "message")),
		FromMe:    boolean(path(item, "key", "fromMe")),
	}
}

// cloudAPI reads WhatsApp Cloud API notifications:
// entry[].changes[].value.messages[].
type cloudAPI struct{}

func (cloudAPI) Name() string { return "cloud_api" }

func (cloudAPI) Extract(ev event) ([]Envelope, bool) {
	entries := list(ev["entry"])
	if entries == nil {
		return nil, false
	}
	var out []Envelope
	for _, entry := range entries {
		for _, change := range list(path(entry, "changes")) {
			for _, msg := range list(path(change, "value", "messages")) {
				text := messageText(msg)
				if text == "" {
					text = str(path(msg, "image", "caption"))
				}
				out = append(out, Envelope{
					From:      normalizeJID(str(path(msg, "from"))),
					MessageID: str(path(msg, "id")),
					Text:      text,
				})
			}
		}
	}
	return out, true
}

// flat reads simple {from, text} bodies from custom gateways and tests.
type flat struct{}

func (flat) Name() string { return "flat" }

var (
	senderKeys = []string{"from", "sender", "number", "user_id"}
	textKeys   = []string{"text", "body", "message", "caption"}
	idKeys     = []string{"message_id", "id"}
)

func (flat) Extract(ev event) ([]Envelope, bool) {
	from := firstString(ev, senderKeys)
	text := ""
	for _, k := range textKeys {
		if t := messageText(ev[k]); t != "" {
			text = t
			break
		}
	}
	if from == "" && text == "" {
		return nil, false
	}
	return []Envelope{{
		Channel:   str(ev["channel"]),
		From:      normalizeJID(from),
		MessageID: firstString(ev, idKeys),
		Text:      text,
		FromMe:    boolean(ev["fromMe"]) || boolean(ev["from_me"]),
	}}, true
}

func firstString(ev event, keys []string) string {
	for _, k := range keys {
		if s := str(ev[k]); s != "" {
			return s
		}
	}
	return ""
}
