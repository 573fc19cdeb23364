package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/wppmanager/internal/authstore"
)

var stdout io.Writer = os.Stdout

func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes tab-separated rows aligned into columns.
func table(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, "\t"))
	}
	return w.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// requireLogin returns the stored credentials. An expired token is dropped.
func requireLogin() (*authstore.Credentials, error) {
	creds, err := authstore.LoadCredentials(store)
	if err != nil {
		return nil, fmt.Errorf("%w: run 'wppmanager login'", err)
	}
	if authstore.TokenExpired(creds.Token, time.Now()) {
		_ = store.Clear()
		return nil, fmt.Errorf("session expired: run 'wppmanager login'")
	}
	return creds, nil
}
