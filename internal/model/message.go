package model

// ChatUser is a chat-platform user as resolved by the gateway.
type ChatUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
	Bot         bool   `json:"bot"`
}

// InboundMessage is one message event forwarded by the gateway: the
// author, the raw text, and the mentioned users already deduplicated
// by user id.
type InboundMessage struct {
	MessageID string     `json:"messageId"`
	ChannelID string     `json:"channelId"`
	Author    ChatUser   `json:"author"`
	Content   string     `json:"content"`
	Mentions  []ChatUser `json:"mentions"`
}

// Mention returns the mentioned user with the given id, if present.
func (m *InboundMessage) Mention(id string) (ChatUser, bool) {
	for _, u := range m.Mentions {
		if u.ID == id {
			return u, true
		}
	}
	return ChatUser{}, false
}

// MentionsUser reports whether the given user id is among the mentions.
func (m *InboundMessage) MentionsUser(id string) bool {
	_, ok := m.Mention(id)
	return ok
}
