package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/logging"
	"github.com/propertybazaar/server/internal/model"
)

const (
	brand        = "PropertyBazaar"
	emailSubject = brand + " OTP"
)

// ChannelDispatcher routes codes to SMS for mobile contacts and email for email contacts.
// A nil sender or mailer means the channel has no credentials.
type ChannelDispatcher struct {
	sms    SMSSender
	mailer Mailer
}

// NewChannelDispatcher creates a dispatcher; either channel may be nil
func NewChannelDispatcher(sms SMSSender, mailer Mailer) *ChannelDispatcher {
	return &ChannelDispatcher{sms: sms, mailer: mailer}
}

// Dispatch sends one message carrying code
func (d *ChannelDispatcher) Dispatch(ctx context.Context, channel model.Channel, contact, code string) error {
	if !channel.Valid() {
		return fmt.Errorf("unsupported channel %q: %w", channel, model.ErrValidation)
	}
	switch channel {
	case model.ChannelMobile:
		if d.sms == nil {
			return fmt.Errorf("sms: %w", model.ErrChannelUnavailable)
		}
		if err := d.sms.SendSMS(ctx, contact, fmt.Sprintf("%s OTP: %s", brand, code)); err != nil {
			return fmt.Errorf("%w: %v", model.ErrChannelDispatch, err)
		}
	case model.ChannelEmail:
		if d.mailer == nil {
			return fmt.Errorf("email: %w", model.ErrChannelUnavailable)
		}
		if err := d.mailer.SendEmail(contact, emailSubject, "Your Verification Code is: "+code); err != nil {
			return fmt.Errorf("%w: %v", model.ErrChannelDispatch, err)
		}
	}
	return nil
}

// LogDispatcher only logs the code. Used in development mode.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a development dispatcher
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, channel model.Channel, contact, code string) error {
	d.logger.Info("dev otp", logging.Contact(contact), zap.String("type", string(channel)), zap.String("code", code))
	return nil
}
