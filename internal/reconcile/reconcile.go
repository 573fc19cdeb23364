// Package reconcile filters, orders and de-duplicates conversation and message
// lists for display.
package reconcile

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matheus3301/wppmanager/internal/gateway"
)

// Filter narrows a conversation list. Zero values match everything.
type Filter struct {
	Instance string
	Query    string
}

// FilterChats drops the status broadcast pseudo-conversation and applies the
// instance and text filters. A blank query matches everything; otherwise the
// query is matched as typed, surrounding spaces included. Input order is
// preserved.
func FilterChats(chats []gateway.Chat, f Filter) []gateway.Chat {
	query := ""
	if strings.TrimSpace(f.Query) != "" {
		query = strings.ToLower(f.Query)
	}
	out := make([]gateway.Chat, 0, len(chats))
	for i := range chats {
		c := &chats[i]
		if c.IsBroadcast() {
			continue
		}
		if f.Instance != "" && c.Instance != f.Instance {
			continue
		}
		if query != "" && !matches(c, query) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func matches(c *gateway.Chat, query string) bool {
	return strings.Contains(strings.ToLower(c.DisplayName()), query) ||
		strings.Contains(strings.ToLower(c.ID()), query) ||
		strings.Contains(strings.ToLower(c.Preview()), query)
}

// SortByRecency orders chats newest activity first. Ties keep input order.
func SortByRecency(chats []gateway.Chat) {
	slices.SortStableFunc(chats, func(a, b gateway.Chat) int {
		ta, tb := a.LastActivityAt(), b.LastActivityAt()
		switch {
		case ta > tb:
			return -1
		case ta < tb:
			return 1
		default:
			return 0
		}
	})
}

// SortThread orders messages oldest first. Ties keep input order.
func SortThread(msgs []gateway.Message) {
	slices.SortStableFunc(msgs, func(a, b gateway.Message) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})
}

// DedupeMessages keeps the first occurrence of each provider id. Messages
// without an id are never merged.
func DedupeMessages(msgs []gateway.Message) []gateway.Message {
	seen := make(map[string]struct{}, len(msgs))
	out := make([]gateway.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID != "" {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
		}
		out = append(out, m)
	}
	return out
}

// Thread de-duplicates and orders a fetched thread for display.
func Thread(msgs []gateway.Message) []gateway.Message {
	out := DedupeMessages(msgs)
	SortThread(out)
	return out
}

// ChatKey is the conversation's list identity. The instance is part of the
// key because the same counterparty id can appear under several instances.
func ChatKey(c *gateway.Chat) string {
	return c.Instance + "\x00" + c.ID()
}

// MessageKey is the message's list identity: its provider id, else its
// position in the list.
func MessageKey(m *gateway.Message, index int) string {
	if m.ID != "" {
		return "id:" + m.ID
	}
	return "idx:" + strconv.Itoa(index)
}

// DedupeChats keeps the first chat for each composite key.
func DedupeChats(chats []gateway.Chat) []gateway.Chat {
	seen := make(map[string]struct{}, len(chats))
	out := make([]gateway.Chat, 0, len(chats))
	for i := range chats {
		k := ChatKey(&chats[i])
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, chats[i])
	}
	return out
}
