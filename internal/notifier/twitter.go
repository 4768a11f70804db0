package notifier

import (
	"fmt"
	"os"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/invitegen/internal/schema"
)

// TwitterNotifier posts event announcements to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Announce posts a tweet for the published event
func (n *TwitterNotifier) Announce(evt *schema.Event, inviteURL string) error {
	tweet := formatAnnouncement(evt, inviteURL)

	_, _, err := n.client.Statuses.Update(tweet, nil)
	if err != nil {
		return fmt.Errorf("failed to post announcement for %q: %w", evt.Title, err)
	}
	return nil
}

// formatAnnouncement formats an event as a tweet
func formatAnnouncement(evt *schema.Event, inviteURL string) string {
	tweet := fmt.Sprintf("🎉 %s\n\n", evt.Title)
	tweet += fmt.Sprintf("📅 %s\n", evt.Start.Format("Mon Jan 2, 3:04 PM"))

	if evt.Location != "" {
		tweet += fmt.Sprintf("📍 %s\n", evt.Location)
	}

	if inviteURL != "" {
		tweet += fmt.Sprintf("\n🔗 RSVP: %s", inviteURL)
	}

	// Twitter limit is 280 characters
	if len(tweet) > 280 {
		tweet = tweet[:277] + "..."
	}

	return tweet
}
