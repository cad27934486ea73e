package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// ThrottledSender keeps outgoing traffic under the Telegram flood limits.
type ThrottledSender struct {
	next    Sender
	limiter *rate.Limiter
}

func NewThrottledSender(next Sender, perSecond float64, burst int) *ThrottledSender {
	return &ThrottledSender{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (s *ThrottledSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return tgbotapi.Message{}, err
	}
	return s.next.Send(c)
}

func (s *ThrottledSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := s.limiter.Wait(context.Background()); err != nil {
		return nil, err
	}
	return s.next.Request(c)
}

// SendMediaGroup costs one token per attached file.
func (s *ThrottledSender) SendMediaGroup(c tgbotapi.MediaGroupConfig) ([]tgbotapi.Message, error) {
	n := len(c.Media)
	if n < 1 {
		n = 1
	}
	if n > s.limiter.Burst() {
		n = s.limiter.Burst()
	}
	if err := s.limiter.WaitN(context.Background(), n); err != nil {
		return nil, err
	}
	return s.next.SendMediaGroup(c)
}
