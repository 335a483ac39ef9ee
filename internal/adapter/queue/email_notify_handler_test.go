package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquavi/delivery-api/internal/usecase"
)

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(msg usecase.NotificationMsg) (string, string, error) {
	if r.err != nil {
		return "", "", r.err
	}
	return "subject:" + string(msg.Kind), "body", nil
}

type fakeClaimer struct {
	claimed map[string]bool
	err     error
}

func newFakeClaimer() *fakeClaimer { return &fakeClaimer{claimed: map[string]bool{}} }

func (c *fakeClaimer) ClaimConfirmation(_ context.Context, number string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.claimed[number] {
		return false, nil
	}
	c.claimed[number] = true
	return true, nil
}

func confirmedMsg() usecase.NotificationMsg {
	return usecase.NotificationMsg{
		Kind:      usecase.EventOrderConfirmed,
		Recipient: "maria@example.com",
		Order:     &usecase.OrderPayload{OrderNumber: "AQ-20240301-AAAAAA"},
	}
}

func TestHandleNotifyEmptyRecipient(t *testing.T) {
	sender := &fakeSender{}
	h := NewEmailNotifyHandler(sender, &fakeRenderer{}, newFakeClaimer())

	msg := confirmedMsg()
	msg.Recipient = ""
	require.NoError(t, h.HandleNotify(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestHandleNotifyConfirmationSentOnce(t *testing.T) {
	sender := &fakeSender{}
	h := NewEmailNotifyHandler(sender, &fakeRenderer{}, newFakeClaimer())

	msg := confirmedMsg()
	require.NoError(t, h.HandleNotify(context.Background(), msg))
	// Redelivery of the same message must not send twice.
	require.NoError(t, h.HandleNotify(context.Background(), msg))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "maria@example.com", sender.sent[0].to)
	assert.Equal(t, "subject:order-confirmed", sender.sent[0].subject)
}

func TestHandleNotifyClaimErrorRetries(t *testing.T) {
	boom := errors.New("db down")
	sender := &fakeSender{}
	h := NewEmailNotifyHandler(sender, &fakeRenderer{}, &fakeClaimer{err: boom})

	// Propagated so the broker redelivers; the claim was not consumed.
	err := h.HandleNotify(context.Background(), confirmedMsg())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sender.sent)
}

func TestHandleNotifyRenderFailureAcks(t *testing.T) {
	sender := &fakeSender{}
	h := NewEmailNotifyHandler(sender, &fakeRenderer{err: errors.New("bad template")}, newFakeClaimer())

	msg := usecase.NotificationMsg{
		Kind:      usecase.EventOrderDelivered,
		Recipient: "maria@example.com",
		Order:     &usecase.OrderPayload{OrderNumber: "AQ-20240301-AAAAAA"},
	}
	assert.NoError(t, h.HandleNotify(context.Background(), msg))
	assert.Empty(t, sender.sent)
}

func TestHandleNotifyDeliveredSkipsClaim(t *testing.T) {
	sender := &fakeSender{}
	claimer := newFakeClaimer()
	h := NewEmailNotifyHandler(sender, &fakeRenderer{}, claimer)

	msg := usecase.NotificationMsg{
		Kind:      usecase.EventOrderDelivered,
		Recipient: "maria@example.com",
		Order:     &usecase.OrderPayload{OrderNumber: "AQ-20240301-AAAAAA"},
	}
	require.NoError(t, h.HandleNotify(context.Background(), msg))
	require.NoError(t, h.HandleNotify(context.Background(), msg))

	// Only order-confirmed is once-only; status mails follow redelivery.
	assert.Len(t, sender.sent, 2)
	assert.Empty(t, claimer.claimed)
}

func TestHandleNotifySendErrorPropagates(t *testing.T) {
	boom := errors.New("smtp refused")
	h := NewEmailNotifyHandler(&fakeSender{err: boom}, &fakeRenderer{}, newFakeClaimer())

	msg := usecase.NotificationMsg{
		Kind:         usecase.EventSubscriptionPaused,
		Recipient:    "maria@example.com",
		Subscription: &usecase.SubscriptionPayload{SubscriptionID: "sub-1"},
	}
	assert.ErrorIs(t, h.HandleNotify(context.Background(), msg), boom)
}
