package render

import (
	"context"
	"time"

	"github.com/goliatone/go-onboard/pkg/media"
)

// PhoneVerifier sends and checks one-time codes for the phone pages.
type PhoneVerifier interface {
	SendCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) (bool, error)
}

// Services are the host collaborators shared by every renderer. Absent
// members degrade to no-ops or local field errors.
type Services struct {
	Media *media.Pipeline
	Phone PhoneVerifier
	Now   func() time.Time
}

// Normalize fills in defaults for missing members.
func (s Services) Normalize() Services {
	if s.Media == nil {
		s.Media = media.NewPipeline(media.Services{})
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}
