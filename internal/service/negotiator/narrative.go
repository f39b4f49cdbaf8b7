package negotiator

import (
	"fmt"
	"strings"

	"github.com/w-h-a/supportdesk/tool_handler/knowledge"
	"github.com/w-h-a/supportdesk/tool_handler/slack"
	"github.com/w-h-a/supportdesk/tool_handler/stripe"
)

const role = "Customer Support Agent"

var goalPhrases = map[Capability]string{
	CapabilityKnowledge:  "the knowledge base (vector search)",
	CapabilityPayments:   "payment operations (Stripe)",
	CapabilityMessaging:  "team messaging (Slack)",
	CapabilityScheduling: "meeting scheduling (Cal)",
}

var skillPhrases = map[Capability]string{
	CapabilityKnowledge:  "answer policy questions from the knowledge base",
	CapabilityPayments:   "take account and payment actions in Stripe",
	CapabilityMessaging:  "communicate with the team via Slack",
	CapabilityScheduling: "share a booking link when a customer wants a meeting",
}

func narrative(capabilities []Capability) (string, string) {
	goals := make([]string, 0, len(capabilities))
	skills := make([]string, 0, len(capabilities))

	for _, c := range capabilities {
		goals = append(goals, goalPhrases[c])
		skills = append(skills, skillPhrases[c])
	}

	goal := "Assist customers using " + joinAnd(goals)
	backstory := "You are a skilled support agent who can " + joinAnd(skills) + "."

	return goal, backstory
}

func instructions(req Request, capabilities []Capability) string {
	var sb strings.Builder

	sb.WriteString("Use only the tools listed below and only for their stated purpose. ")
	sb.WriteString("Bound parameter values are fixed for this conversation: pass them exactly as given, never invent, change, or omit them.\n")

	for _, c := range capabilities {
		sb.WriteString("\n")
		switch c {
		case CapabilityKnowledge:
			fmt.Fprintf(&sb, "Knowledge base: if you need extra knowledge, call %s to retrieve relevant context. Every call must include %s=%q.\n",
				knowledge.Name, knowledge.OwnerParam, req.OwnerId)
		case CapabilityPayments:
			fmt.Fprintf(&sb, "Payments: if the customer requests an account or payment action (like refund or cancel), use the Stripe tools (%s). Every call must include %s=%q.\n",
				strings.Join(stripe.Operations, ", "), stripe.ApiKeyParam, req.StripeApiKey)
		case CapabilityMessaging:
			fmt.Fprintf(&sb, "Messaging: if there are important payment events or other critical issues that need team attention, use the Slack tools (%s) to notify the support channel. Every call must include %s=%q.\n",
				strings.Join(slack.Operations, ", "), slack.TokenParam, req.SlackBotToken)
			if len(req.SlackTeamId) > 0 {
				fmt.Fprintf(&sb, "The Slack workspace is team %q.\n", req.SlackTeamId)
			}
			if ids := req.channelIds(); len(ids) > 0 {
				fmt.Fprintf(&sb, "Only these channels are available: %s.\n", strings.Join(ids, ", "))
			}
		case CapabilityScheduling:
			fmt.Fprintf(&sb, "Scheduling: if the customer wants to schedule a meeting, provide them with this calendar URL: %s\n", req.CalEventUrl)
		}
	}

	if !contains(capabilities, CapabilityScheduling) {
		sb.WriteString("\nScheduling is not available: never mention scheduling, meetings, or calendar links.\n")
	}

	sb.WriteString("\nYou may use any combination of the listed tools as needed. Always answer in a polite, supportive, and clear way.")

	return sb.String()
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
}

func contains(capabilities []Capability, target Capability) bool {
	for _, c := range capabilities {
		if c == target {
			return true
		}
	}
	return false
}
