// Package smtp delivers plaintext messages over authenticated STARTTLS SMTP.
//
// One Send is one session: dial, STARTTLS, PLAIN auth, one MAIL FROM, one
// RCPT TO per recipient, a single DATA transaction, QUIT. The connection is
// closed on every path.
package smtp
