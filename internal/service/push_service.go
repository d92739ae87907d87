package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/models"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/transfer"
)

type PushService interface {
	Subscribe(ctx context.Context, req *transfer.PushSubscribeRequest) error
	Unsubscribe(ctx context.Context, req *transfer.PushUnsubscribeRequest) error
	NotifyAnnouncement(ctx context.Context, announcement *transfer.PostResponse) (*transfer.PushSendResponse, error)
}

type pushService struct {
	cfg  config.Push
	subs repository.PushRepository
}

func NewPushService(cfg config.Push, subs repository.PushRepository) PushService {
	return &pushService{cfg: cfg, subs: subs}
}

func (s *pushService) Subscribe(ctx context.Context, req *transfer.PushSubscribeRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}

	_, err := s.subs.Upsert(ctx, &models.PushSubscription{
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
	return err
}

func (s *pushService) Unsubscribe(ctx context.Context, req *transfer.PushUnsubscribeRequest) error {
	if err := validate.Struct(req); err != nil {
		return validationError(err)
	}
	return s.subs.RemoveByEndpoint(ctx, req.Endpoint)
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// NotifyAnnouncement fans an announcement out to every subscription.
// Endpoints that answer 404/410 are gone and get pruned.
func (s *pushService) NotifyAnnouncement(ctx context.Context, announcement *transfer.PostResponse) (*transfer.PushSendResponse, error) {
	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(pushPayload{
		Title: announcement.Title,
		Body:  announcement.Summary,
		URL:   "/announcements/" + announcement.Slug,
	})
	if err != nil {
		return nil, err
	}

	result := &transfer.PushSendResponse{}
	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.cfg.Subscriber,
			VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
			VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
			TTL:             3600,
		})
		if err != nil {
			slog.Error("web push send failed", "endpoint", sub.Endpoint, "error", err)
			result.Failed++
			continue
		}
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			if err := s.subs.RemoveByEndpoint(ctx, sub.Endpoint); err == nil {
				result.Pruned++
			}
			result.Failed++
		default:
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				result.Sent++
			} else {
				slog.Info("web push rejected", "endpoint", sub.Endpoint, "status", resp.StatusCode)
				result.Failed++
			}
		}
	}
	return result, nil
}
