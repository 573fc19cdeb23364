package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/matheus3301/wppmanager/internal/gateway"
)

// Chats lists conversation summaries across all of the user's instances.
func (c *Client) Chats(ctx context.Context) (*gateway.ChatsResponse, error) {
	var out gateway.ChatsResponse
	if err := c.do(ctx, http.MethodGet, "/messages/chats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ThreadResponse is a thread fetch whose body has not been decoded yet.
type ThreadResponse struct {
	resp *http.Response
}

// Decode reads and parses the message list.
func (r *ThreadResponse) Decode() ([]gateway.Message, error) {
	var out gateway.MessagesResponse
	if err := json.NewDecoder(r.resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return out.Messages, nil
}

// Close releases the response body.
func (r *ThreadResponse) Close() error {
	return r.resp.Body.Close()
}

// OpenThread requests the messages of one conversation. Every known id
// variant is passed so the backend can union messages stored under each.
func (c *Client) OpenThread(ctx context.Context, ref gateway.ConversationRef) (*ThreadResponse, error) {
	path := "/messages/" + segment(ref.Instance) + "/" + segment(ref.ID)
	var query url.Values
	if ids := variants(ref.AllIDs); len(ids) > 0 {
		query = url.Values{"allJids": {strings.Join(ids, ",")}}
	}
	resp, err := c.send(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return &ThreadResponse{resp: resp}, nil
}

// Messages fetches and decodes one conversation in a single call.
func (c *Client) Messages(ctx context.Context, ref gateway.ConversationRef) ([]gateway.Message, error) {
	r, err := c.OpenThread(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.Decode()
}

func variants(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
