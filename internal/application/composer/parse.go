package composer

import (
	"strings"

	"github.com/aescanero/dailyquote/internal/domain"
)

const (
	subjectLabel = "Subject:"
	bodyLabel    = "Body:"
	labelIndent  = " \t"
)

// ParseEmail splits a provider response of the shape
//
//	Subject: <subject>
//	<blank line or "Body:">
//	<body...>
//
// into a subject and a body. The response must have at least three
// newline-delimited segments. "Body:" is only a label when it opens the second
// or third segment; the body is the text after it, or the whole third segment
// when neither opens with the label. Both parts are trimmed and must be non-empty.
func ParseEmail(response string) (*domain.ComposedEmail, error) {
	normalized := strings.ReplaceAll(response, "\r\n", "\n")

	parts := strings.SplitN(normalized, "\n", 3)
	if len(parts) < 3 {
		return nil, domain.NewParseError("expected subject, separator and body lines", len(parts))
	}

	subject := strings.TrimSpace(strings.Replace(parts[0], subjectLabel, "", 1))
	if subject == "" {
		return nil, domain.NewParseError("empty subject", len(parts))
	}

	body := parts[2]
	if second := strings.TrimLeft(parts[1], labelIndent); strings.HasPrefix(second, bodyLabel) {
		body = second[len(bodyLabel):] + "\n" + parts[2]
	} else if third := strings.TrimLeft(parts[2], labelIndent+"\n"); strings.HasPrefix(third, bodyLabel) {
		body = third[len(bodyLabel):]
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domain.NewParseError("empty body", len(parts))
	}

	return &domain.ComposedEmail{
		Subject: subject,
		Body:    body,
	}, nil
}
