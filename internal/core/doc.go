// Package core holds the dashboard's load pipeline and shared lead state,
// independent of any transport. Web handlers, the refresh scheduler and the
// file watcher all go through [Service].
//
// # Loads
//
// A load is a refresh from the backend ([Service.Refresh]), a browser upload
// ([Service.Upload]) or a local file ([Service.LoadFile]). Every load takes a
// [Ticket] from [State] before it starts reading. When it finishes, its
// table is committed only if no newer ticket was issued in the meantime;
// otherwise the load returns [ErrSuperseded] and its result is discarded.
// The last request to start always wins, however the loads interleave.
//
// A failed load keeps the previous table and records the error in the
// status, so the dashboard keeps showing the last good data.
//
// # Limits
//
// [LoadLimiter] caps concurrent loads. Streams are wrapped by
// [WrapForLoad], which strips a byte-order mark, replaces invalid UTF-8 and
// enforces the configured size limit with [ErrFileTooLarge].
//
// # Errors
//
// [MapError] turns any error produced here, in the leads package or in the
// upstream client into a [UserMessage] with a stable support code.
package core
