package notifier

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/invitegen/internal/schema"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Announce prints the announcement that would be posted
func (n *DryRunNotifier) Announce(evt *schema.Event, inviteURL string) error {
	tweet := formatAnnouncement(evt, inviteURL)
	fmt.Fprintln(n.out, "--- Announcement (dry run) ---")
	fmt.Fprintln(n.out, tweet)
	fmt.Fprintf(n.out, "\n(Length: %d characters)\n", len(tweet))
	return nil
}
