// Package composer implements the quote email composer.
//
// The composer asks a QuoteSource for today's quote, asks the completion
// provider to wrap it in an email with labelled Subject: and Body: sections,
// parses that answer and hands a single message addressed to the whole
// mailing list to a Sender.
package composer
