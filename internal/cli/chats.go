package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"github.com/matheus3301/wppmanager/internal/timestamp"
	"github.com/matheus3301/wppmanager/internal/tui/model"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"
)

var (
	chatsInstance string
	chatsQuery    string
	chatsSort     string
	messagesRaw   bool
)

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "List conversations across instances",
	Example: `  wppmanager chats
  wppmanager chats --instance sales --query maria
  wppmanager chats --sort unread`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, ok := model.ParseSortMode(chatsSort)
		if !ok {
			return fmt.Errorf("unknown sort %q (recent, unread, name)", chatsSort)
		}
		resp, err := api.Chats(cmd.Context())
		if err != nil {
			return fmt.Errorf("list chats: %w", err)
		}

		chats := reconcile.FilterChats(reconcile.DedupeChats(resp.Chats),
			reconcile.Filter{Instance: chatsInstance, Query: chatsQuery})
		model.SortChats(chats, mode)

		if jsonOut {
			return outputJSON(chats)
		}
		if summary := resp.Summary(); summary != "" {
			fmt.Fprintln(stdout, summary)
		}
		if len(chats) == 0 {
			fmt.Fprintln(stdout, "No conversations.")
			return nil
		}
		now := time.Now()
		rows := make([][]string, 0, len(chats))
		for i := range chats {
			c := &chats[i]
			rows = append(rows, []string{
				c.Instance,
				c.ID(),
				truncate(c.DisplayName(), 28),
				fmt.Sprintf("%d", c.Unread()),
				orDash(timestamp.Format(c.LastActivityAt(), now)),
				truncate(c.Preview(), 48),
			})
		}
		return table([]string{"INSTANCE", "ID", "NAME", "UNREAD", "TIME", "LAST MESSAGE"}, rows)
	},
}

var messagesCmd = &cobra.Command{
	Use:   "messages <instance> <conversation-id>",
	Short: "Print the messages of one conversation, oldest first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		instance, id := args[0], args[1]
		if _, err := instanceArg(args); err != nil {
			return err
		}

		ref := gateway.ConversationRef{Instance: instance, ID: id}
		// The chat list knows every id variant of the conversation.
		if resp, err := api.Chats(ctx); err == nil {
			for i := range resp.Chats {
				c := &resp.Chats[i]
				if c.Instance == instance && c.ID() == id {
					ref = c.Ref()
					break
				}
			}
		} else {
			log.Sugar().Warnw("chat lookup failed, fetching by id only", "error", err)
		}

		msgs, err := api.Messages(ctx, ref)
		if err != nil {
			return fmt.Errorf("fetch messages: %w", err)
		}
		msgs = reconcile.Thread(msgs)

		if jsonOut {
			return outputMessagesJSON(msgs)
		}
		if len(msgs) == 0 {
			fmt.Fprintln(stdout, "No messages.")
			return nil
		}
		for i := range msgs {
			m := &msgs[i]
			sender := m.PushName
			if m.FromSelf {
				sender = "You"
			}
			fmt.Fprintf(stdout, "[%s] %s: %s\n", timestamp.Clock(m.Timestamp), orDash(sender), m.Content.Preview())
		}
		return nil
	},
}

func init() {
	chatsCmd.Flags().StringVarP(&chatsInstance, "instance", "i", "", "only this instance")
	chatsCmd.Flags().StringVarP(&chatsQuery, "query", "q", "", "filter by name, id or last message")
	chatsCmd.Flags().StringVarP(&chatsSort, "sort", "s", "recent", "sort order: recent, unread, name")
	messagesCmd.Flags().BoolVar(&messagesRaw, "raw", false, "with --json, include the decoded message payload")
}

func outputMessagesJSON(msgs []gateway.Message) error {
	if !messagesRaw {
		return outputJSON(msgs)
	}
	type rawMessage struct {
		Message json.RawMessage `json:"message"`
		Payload json.RawMessage `json:"payload,omitempty"`
	}
	out := make([]rawMessage, 0, len(msgs))
	for i := range msgs {
		b, err := json.Marshal(msgs[i])
		if err != nil {
			return err
		}
		row := rawMessage{Message: b}
		if msgs[i].Raw != nil {
			if row.Payload, err = protojson.Marshal(msgs[i].Raw); err != nil {
				return err
			}
		}
		out = append(out, row)
	}
	return outputJSON(out)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
