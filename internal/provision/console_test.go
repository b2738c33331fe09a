package provision

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// fakePort is a scripted serial transport: reads come from a fixed
// script, writes collect into a buffer for assertions.
type fakePort struct {
	in  *strings.Reader
	out bytes.Buffer
}

func newFakePort(script string) *fakePort {
	return &fakePort{in: strings.NewReader(script)}
}

func (p *fakePort) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *fakePort) Write(b []byte) (int, error) { return p.out.Write(b) }

func newTestConsole(script string) (*Console, *fakePort) {
	port := newFakePort(script)
	return NewConsole(port), port
}

// waitPending blocks until the reader goroutine has buffered input.
func waitPending(t *testing.T, c *Console) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !c.InputPending() {
		if time.Now().After(deadline) {
			t.Fatal("input never became pending")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name   string
		script string
		maxLen int
		want   string
	}{
		{
			name:   "simple line with LF",
			script: "hello\n",
			maxLen: 32,
			want:   "hello",
		},
		{
			name:   "simple line with CR",
			script: "hello\r",
			maxLen: 32,
			want:   "hello",
		},
		{
			name:   "backspace erases",
			script: "cat\b\bow\n",
			maxLen: 32,
			want:   "cow",
		},
		{
			name:   "DEL erases like backspace",
			script: "ab\x7f\n",
			maxLen: 32,
			want:   "a",
		},
		{
			name:   "backspace on empty buffer ignored",
			script: "\b\bok\n",
			maxLen: 32,
			want:   "ok",
		},
		{
			name:   "input beyond max length swallowed",
			script: "abcdef\n",
			maxLen: 3,
			want:   "abc",
		},
		{
			name:   "control bytes ignored",
			script: "a\x01\x02b\n",
			maxLen: 32,
			want:   "ab",
		},
		{
			name:   "empty line",
			script: "\n",
			maxLen: 32,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.script)
			if got := c.ReadLine("> ", tt.maxLen); got != tt.want {
				t.Errorf("ReadLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadLineEcho(t *testing.T) {
	c, port := newTestConsole("hi\bey\n")
	got := c.ReadLine("name: ", 16)

	if got != "hey" {
		t.Fatalf("ReadLine() = %q, want %q", got, "hey")
	}
	out := port.out.String()
	if !strings.HasPrefix(out, "name: ") {
		t.Errorf("output %q missing prompt prefix", out)
	}
	if !strings.Contains(out, "\b \b") {
		t.Errorf("output %q missing erase sequence", out)
	}
}

func TestReadLineCRLFTreatedAsOneTerminator(t *testing.T) {
	c, _ := newTestConsole("one\r\ntwo\r\n")

	if got := c.ReadLine("", 16); got != "one" {
		t.Fatalf("first ReadLine() = %q, want %q", got, "one")
	}
	if got := c.ReadLine("", 16); got != "two" {
		t.Errorf("second ReadLine() = %q, want %q", got, "two")
	}
}

func TestReadLineTransportClosed(t *testing.T) {
	// No terminator: EOF must hand back what was collected instead of
	// spinning.
	c, _ := newTestConsole("partial")
	if got := c.ReadLine("", 16); got != "partial" {
		t.Errorf("ReadLine() = %q, want %q", got, "partial")
	}
}

func TestReadInteger(t *testing.T) {
	tests := []struct {
		name   string
		script string
		def    uint32
		want   uint32
	}{
		{"numeric input", "42\n", 7, 42},
		{"blank keeps default", "\n", 7, 7},
		{"whitespace only keeps default", "   \n", 7, 7},
		{"non-numeric reads as zero", "abc\n", 7, 0},
		{"trailing letters read as zero", "12ab\n", 7, 0},
		{"negative reads as zero", "-5\n", 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestConsole(tt.script)
			if got := c.ReadInteger("n: ", tt.def); got != tt.want {
				t.Errorf("ReadInteger() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadSecretMasksEcho(t *testing.T) {
	c, port := newTestConsole("pw\n")
	got := c.ReadSecret("pass: ", 16)

	if got != "pw" {
		t.Fatalf("ReadSecret() = %q, want %q", got, "pw")
	}
	out := port.out.String()
	if strings.Contains(out, "pw") {
		t.Errorf("output %q leaked the secret", out)
	}
	if !strings.Contains(out, "**") {
		t.Errorf("output %q missing masked echo", out)
	}
}

func TestReadSecretUnmasked(t *testing.T) {
	c, port := newTestConsole("pw\n")
	c.SetMaskSecrets(false)

	if got := c.ReadSecret("pass: ", 16); got != "pw" {
		t.Fatalf("ReadSecret() = %q, want %q", got, "pw")
	}
	if !strings.Contains(port.out.String(), "pw") {
		t.Errorf("output %q missing clear-text echo after unmasking", port.out.String())
	}
}

func TestInputPendingAndDrain(t *testing.T) {
	c, _ := newTestConsole("x")
	waitPending(t, c)

	c.DrainInput()
	if c.InputPending() {
		t.Error("InputPending() = true after DrainInput()")
	}
}

func TestInputPendingEmpty(t *testing.T) {
	c, _ := newTestConsole("")
	// The reader goroutine closes the channel on EOF; pending stays false.
	time.Sleep(10 * time.Millisecond)
	if c.InputPending() {
		t.Error("InputPending() = true with no input")
	}
}
