package notifier

import (
	"github.com/pfrederiksen/invitegen/internal/schema"
)

// Notifier posts an announcement for an event the host has published.
type Notifier interface {
	// Announce posts one announcement linking to the published invite.
	Announce(evt *schema.Event, inviteURL string) error
}
