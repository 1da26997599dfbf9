package devserver

import (
	"context"

	"github.com/dmitrijs2005/gophjournal/internal/devserver/store"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

// Mailer delivers one-time codes. The dev server never sends real mail.
type Mailer interface {
	Send(ctx context.Context, to string, purpose store.Purpose, code string) error
}

type logMailer struct {
	log logging.Logger
}

func (m *logMailer) Send(ctx context.Context, to string, purpose store.Purpose, code string) error {
	m.log.Info(ctx, "mail", "to", to, "purpose", string(purpose), "code", code)
	return nil
}
