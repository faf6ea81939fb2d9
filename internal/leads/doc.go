// Package leads holds the data-transformation core of the leads dashboard.
//
// Everything in this package is pure and synchronous. Raw CSV text flows
// through it in a fixed order:
//
//  1. [Parse] / [ParseString] split the text into a [Table] (quote-aware).
//  2. [Redact] removes configured column positions. [Load] combines the two
//     steps and is the only way the service builds a Table, so a column is
//     redacted exactly once per raw parse.
//  3. [Engine.Query] applies search, the industry filter and the sort to
//     produce the visible rows. The Table itself is never mutated.
//  4. [Classifier.Classify] turns each visible cell into a display-ready
//     [Cell] (url, timestamp, industry, phone number or plain text).
//
// # Ragged rows
//
// Rows are kept exactly as parsed. A row may be shorter or longer than the
// header list; [Row.Cell] reads a missing trailing cell as the empty string.
//
// # Errors
//
// The pipeline never fails on malformed-but-present data. [ErrInvalidInput]
// is returned only when there is no input at all, and read failures are
// wrapped in [FileReadError]. Timestamp conversion failures are logged and
// the raw value is returned (see [ErrConversionFallback]).
package leads
