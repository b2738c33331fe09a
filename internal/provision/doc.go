// Package provision implements the interactive operator console used to
// collect a device configuration record over a serial line (or stdio
// during development).
//
// A Console wraps one io.ReadWriter. A reader goroutine drains the
// transport into a buffered channel so the boot sequence can ask "has the
// operator pressed a key?" without blocking, while prompt/echo writes
// stay synchronous. Line editing is deliberately minimal: printable
// ASCII, backspace/DEL erase, CR or LF terminates.
//
// Secret fields echo '*' and are masked in summaries by default. The
// mask can be switched off for bench diagnostics, but clear-text echo is
// never the default.
//
// The console is boot-time machinery with a single caller; its methods
// are not safe for concurrent use.
package provision
