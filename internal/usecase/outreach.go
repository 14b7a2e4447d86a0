package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/xavierca1/calldesk/internal/entity"
)

// MissedCallMessage is the follow-up sent to a lead that did not pick up.
type MissedCallMessage struct {
	To      string
	Subject string
	Body    string
}

func ComposeMissedCall(lead entity.Lead, callerName, company string) (MissedCallMessage, error) {
	to := strings.TrimSpace(lead.Email)
	if to == "" {
		return MissedCallMessage{}, domainErr(entity.ErrMissingContactChannel)
	}
	return MissedCallMessage{
		To:      to,
		Subject: fmt.Sprintf("Missed Call - %s Life Insurance", company),
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe tried to contact you regarding %s's insurance solutions. "+
				"We will give you another call in the next day or so.\n\nBest regards,\n%s\n%s",
			lead.Name, company, callerName, company,
		),
	}, nil
}

// Mailto renders the message as a mailto: link for the agent's mail client.
func (m MissedCallMessage) Mailto() string {
	return "mailto:" + m.To + "?subject=" + encodeComponent(m.Subject) + "&body=" + encodeComponent(m.Body)
}

// MissedCallMailto refuses leads without an email address.
func MissedCallMailto(lead entity.Lead, callerName, company string) (string, error) {
	msg, err := ComposeMissedCall(lead, callerName, company)
	if err != nil {
		return "", err
	}
	return msg.Mailto(), nil
}

// encodeComponent escapes like encodeURIComponent: spaces become %20, not +.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
