package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/model"
)

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

func TestDispatch_Mobile(t *testing.T) {
	sms := &mockSMSSender{}
	sms.On("SendSMS", mock.Anything, "+919800000001", "PropertyBazaar OTP: 123456").Return(nil)

	d := NewChannelDispatcher(sms, nil)
	require.NoError(t, d.Dispatch(context.Background(), model.ChannelMobile, "+919800000001", "123456"))
	sms.AssertExpectations(t)
}

func TestDispatch_Email(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", "a@b.com", "PropertyBazaar OTP", "Your Verification Code is: 123456").Return(nil)

	d := NewChannelDispatcher(nil, ml)
	require.NoError(t, d.Dispatch(context.Background(), model.ChannelEmail, "a@b.com", "123456"))
	ml.AssertExpectations(t)
}

func TestDispatch_MissingCredentials(t *testing.T) {
	d := NewChannelDispatcher(nil, nil)

	err := d.Dispatch(context.Background(), model.ChannelMobile, "+91", "1")
	assert.ErrorIs(t, err, model.ErrChannelUnavailable)

	err = d.Dispatch(context.Background(), model.ChannelEmail, "a@b.com", "1")
	assert.ErrorIs(t, err, model.ErrChannelUnavailable)
}

func TestDispatch_ProviderFailure(t *testing.T) {
	ml := &mockMailer{}
	ml.On("SendEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("535 auth failed"))

	err := NewChannelDispatcher(nil, ml).Dispatch(context.Background(), model.ChannelEmail, "a@b.com", "1")
	assert.ErrorIs(t, err, model.ErrChannelDispatch)
	assert.Contains(t, err.Error(), "535")
}

func TestDispatch_UnknownChannel(t *testing.T) {
	err := NewChannelDispatcher(nil, nil).Dispatch(context.Background(), "pigeon", "x", "1")
	assert.ErrorIs(t, err, model.ErrValidation)

	sms := &mockSMSSender{}
	ml := &mockMailer{}
	err = NewChannelDispatcher(sms, ml).Dispatch(context.Background(), "", "a@b.com", "1")
	assert.ErrorIs(t, err, model.ErrValidation)
	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
	ml.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogDispatcher(t *testing.T) {
	assert.NoError(t, NewLogDispatcher(zap.NewNop()).Dispatch(context.Background(), model.ChannelEmail, "a@b.com", "1"))
}

func TestSMTPMailer_BuildsMessage(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth
	m := &smtpMailer{
		cfg: SMTPConfig{Host: "smtp.example.com", Port: "587", From: "noreply@example.com", Username: "u", Password: "p"},
		sendMail: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
			return nil
		},
	}

	require.NoError(t, m.SendEmail("a@b.com", "Hello", "Body"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"a@b.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Hello\r\n")
	assert.Contains(t, string(gotMsg), "\r\n\r\nBody")
}

type fakePublisher struct {
	in  *sns.PublishInput
	err error
}

func (f *fakePublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

func TestSNSSender_Publish(t *testing.T) {
	pub := &fakePublisher{}
	s := &snsSender{client: pub}

	require.NoError(t, s.SendSMS(context.Background(), "+919800000001", "hi"))
	require.NotNil(t, pub.in)
	assert.Equal(t, "+919800000001", *pub.in.PhoneNumber)
	assert.Equal(t, "hi", *pub.in.Message)

	pub.err = errors.New("throttled")
	assert.Error(t, s.SendSMS(context.Background(), "+919800000001", "hi"))
}
