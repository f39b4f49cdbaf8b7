package negotiator

import "strings"

// Request carries one chat call's message, owner and per-capability
// flags with their credentials.
type Request struct {
	Message         string
	OwnerId         string
	StripeEnabled   bool
	StripeApiKey    string
	SlackEnabled    bool
	SlackBotToken   string
	SlackTeamId     string
	SlackChannelIds []string
	CalEnabled      bool
	CalEventUrl     string
}

func (r Request) paymentsEnabled() bool {
	return r.StripeEnabled && len(strings.TrimSpace(r.StripeApiKey)) > 0
}

func (r Request) messagingEnabled() bool {
	return r.SlackEnabled && len(strings.TrimSpace(r.SlackBotToken)) > 0
}

func (r Request) schedulingEnabled() bool {
	return r.CalEnabled && len(strings.TrimSpace(r.CalEventUrl)) > 0
}

func (r Request) channelIds() []string {
	ids := make([]string, 0, len(r.SlackChannelIds))
	for _, id := range r.SlackChannelIds {
		if id = strings.TrimSpace(id); len(id) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
