package provision

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Input handling constants.
const (
	inputBufferSize = 256 // bytes buffered between the reader goroutine and consumers
	integerDigits   = 10  // enough for any uint32

	keyBackspace = 0x08
	keyDelete    = 0x7F
)

// Console is the interactive provisioning console. It owns the operator
// transport for the life of the process.
type Console struct {
	w         io.Writer
	input     chan byte
	mask      bool
	swallowLF bool
}

// NewConsole wraps rw and starts its reader goroutine. Secret masking is
// on until SetMaskSecrets switches it off.
func NewConsole(rw io.ReadWriter) *Console {
	c := &Console{
		w:     rw,
		input: make(chan byte, inputBufferSize),
		mask:  true,
	}
	go c.readLoop(rw)
	return c
}

// SetMaskSecrets controls whether secret prompts echo '*' and summaries
// mask credential values.
func (c *Console) SetMaskSecrets(on bool) {
	c.mask = on
}

// readLoop pumps transport bytes into the input channel. The channel is
// closed when the transport reports an error or EOF, which readers treat
// as end of input.
func (c *Console) readLoop(r io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			c.input <- buf[i]
		}
		if err != nil {
			close(c.input)
			return
		}
	}
}

// InputPending reports whether at least one unread byte is waiting.
// Never blocks.
func (c *Console) InputPending() bool {
	return len(c.input) > 0
}

// DrainInput discards every byte currently waiting, without blocking.
func (c *Console) DrainInput() {
	for {
		select {
		case _, ok := <-c.input:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// Printf writes an operator-facing status line.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// ReadLine prints prompt and collects one line of input. Printable ASCII
// is echoed and buffered up to maxLen (excess is swallowed without echo),
// backspace and DEL erase on screen and in the buffer, CR or LF ends the
// line. Returns the collected text without the terminator.
func (c *Console) ReadLine(prompt string, maxLen int) string {
	c.Printf("%s", prompt)
	return c.readLine(maxLen, false)
}

// ReadSecret behaves like ReadLine but echoes '*' for each accepted
// character while masking is enabled.
func (c *Console) ReadSecret(prompt string, maxLen int) string {
	c.Printf("%s", prompt)
	return c.readLine(maxLen, c.mask)
}

// ReadInteger prints prompt and parses one line as an unsigned integer.
// Blank input keeps def. Non-numeric input yields 0: the parse error is
// discarded, a quirk kept because operators are expected to enter digits.
func (c *Console) ReadInteger(prompt string, def uint32) uint32 {
	line := strings.TrimSpace(c.ReadLine(prompt, integerDigits))
	if line == "" {
		return def
	}
	n, err := strconv.ParseUint(line, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func (c *Console) readLine(maxLen int, masked bool) string {
	buf := make([]byte, 0, maxLen)
	for {
		b, ok := <-c.input
		if !ok {
			// Transport gone: hand back whatever was collected.
			return string(buf)
		}

		if c.swallowLF {
			c.swallowLF = false
			if b == '\n' {
				continue // second half of a CRLF terminator
			}
		}

		switch {
		case b == '\r' || b == '\n':
			c.swallowLF = b == '\r'
			c.write("\r\n")
			return string(buf)
		case b == keyBackspace || b == keyDelete:
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				c.write("\b \b")
			}
		case b >= 0x20 && b <= 0x7E:
			if len(buf) >= maxLen {
				continue
			}
			buf = append(buf, b)
			if masked {
				c.write("*")
			} else {
				c.echo(b)
			}
		}
		// Other control bytes are ignored.
	}
}

// write sends s down the transport. Echo failures mid-prompt are not
// actionable, so errors are dropped.
func (c *Console) write(s string) {
	_, _ = io.WriteString(c.w, s)
}

func (c *Console) echo(b byte) {
	_, _ = c.w.Write([]byte{b})
}
