package services

import (
	"context"
	"log"

	"firebase.google.com/go/messaging"
)

// DeviceTokenStore resolves registered device tokens by user role.
type DeviceTokenStore interface {
	GetDeviceTokens(ctx context.Context, role string) ([]string, error)
}

// FCMService pushes staff-facing notifications through Firebase Cloud
// Messaging. It satisfies PushSender; a nil messaging client means push is
// disabled.
type FCMService struct {
	Client   *messaging.Client
	Tokens   DeviceTokenStore
	ErrorLog *log.Logger
}

func (s *FCMService) PushToRole(ctx context.Context, role, title, body string) error {
	if s.Client == nil {
		return nil
	}
	tokens, err := s.Tokens.GetDeviceTokens(ctx, role)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
		}
		if _, err := s.Client.Send(ctx, message); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("fcm send to %s: %v", role, err)
		}
	}
	return nil
}
