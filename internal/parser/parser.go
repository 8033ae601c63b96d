// Package parser classifies inbound channel messages as pairing events.
// Parsing is pure and total: it never errors and has no side effects, it
// either yields a candidate pair or a rejection reason.
package parser

import (
	"strings"

	"github.com/brewlog/brewbot-server-go/internal/config"
	"github.com/brewlog/brewbot-server-go/internal/model"
)

// RejectReason is a normal negative classification, not an error.
type RejectReason string

const (
	ReasonNone            RejectReason = ""
	ReasonMentionCount    RejectReason = "mention_count"
	ReasonBotNotMentioned RejectReason = "bot_not_mentioned"
	ReasonSelfPairing     RejectReason = "self_pairing"
	ReasonMissingKeyword  RejectReason = "missing_keyword"
)

// Candidate is an accepted pairing: the message author and the one
// other participant extracted from the message.
type Candidate struct {
	Author model.ChatUser
	Other  model.ChatUser
}

// Parser inspects one message and accepts or rejects it as a pairing event.
type Parser interface {
	// Parse returns a candidate, or a nil candidate with the rejection reason.
	Parse(msg *model.InboundMessage) (*Candidate, RejectReason)
	// BotAddressed reports whether the message explicitly mentions the bot.
	// Rejections of bot-addressed messages get a negative acknowledgment;
	// everything else is silently ignored.
	BotAddressed(msg *model.InboundMessage) bool
}

// New selects the parse policy. The two acceptance rules are incompatible
// historical policies, so the choice is explicit configuration rather than
// a hard-coded rule.
func New(policy config.ParsePolicy, botUserID string) Parser {
	switch policy {
	case config.PolicyKeyword:
		return &keywordPolicy{botUserID: botUserID}
	default:
		return &twoMentionPolicy{botUserID: botUserID}
	}
}

// twoMentionPolicy accepts a message that mentions exactly two distinct
// users, one of them the bot; the other mention is the pairing candidate.
type twoMentionPolicy struct {
	botUserID string
}

func (p *twoMentionPolicy) Parse(msg *model.InboundMessage) (*Candidate, RejectReason) {
	mentions := dedupeMentions(msg.Mentions)

	if len(mentions) != 2 {
		return nil, ReasonMentionCount
	}

	var other *model.ChatUser
	botMentioned := false
	for i := range mentions {
		if mentions[i].ID == p.botUserID {
			botMentioned = true
		} else {
			other = &mentions[i]
		}
	}

	if !botMentioned {
		return nil, ReasonBotNotMentioned
	}
	if other == nil || other.ID == msg.Author.ID {
		return nil, ReasonSelfPairing
	}

	return &Candidate{Author: msg.Author, Other: *other}, ReasonNone
}

func (p *twoMentionPolicy) BotAddressed(msg *model.InboundMessage) bool {
	return msg.MentionsUser(p.botUserID)
}

// keywordPolicy accepts a message that mentions exactly one user and
// contains the word "chat"; the single mention is the pairing candidate.
type keywordPolicy struct {
	botUserID string
}

const keyword = "chat"

func (p *keywordPolicy) Parse(msg *model.InboundMessage) (*Candidate, RejectReason) {
	mentions := dedupeMentions(msg.Mentions)

	if len(mentions) != 1 {
		return nil, ReasonMentionCount
	}
	if !strings.Contains(strings.ToLower(msg.Content), keyword) {
		return nil, ReasonMissingKeyword
	}

	other := mentions[0]
	if other.ID == p.botUserID {
		// The bot itself is never a pairing partner.
		return nil, ReasonMentionCount
	}
	if other.ID == msg.Author.ID {
		return nil, ReasonSelfPairing
	}

	return &Candidate{Author: msg.Author, Other: other}, ReasonNone
}

func (p *keywordPolicy) BotAddressed(msg *model.InboundMessage) bool {
	return msg.MentionsUser(p.botUserID)
}

// dedupeMentions collapses repeat mentions of the same user id,
// preserving first-seen order. The gateway already deduplicates, but
// counting rules depend on it so it is enforced here as well.
func dedupeMentions(mentions []model.ChatUser) []model.ChatUser {
	seen := make(map[string]struct{}, len(mentions))
	out := make([]model.ChatUser, 0, len(mentions))
	for _, u := range mentions {
		if _, ok := seen[u.ID]; ok {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}
