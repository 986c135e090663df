// Package quote implements the daily quote generator.
//
// The generator formats the day as "Monday January 02", embeds it in a fixed
// instruction and returns the provider's text verbatim.
package quote
