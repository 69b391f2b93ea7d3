package interfaces

import "context"

// IEmailSender abstracts the outbound email transport (e.g. Amazon SES).
// textBody may be empty; a nil return means the transport accepted the
// message.
type IEmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
