package net

import (
	"io"
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTelnetFilterStripsIAC(t *testing.T) {
	var f telnetFilter
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("hello"), "hello"},
		{"will option", []byte{'a', IAC, WILL, TELOPT_ECHO, 'b'}, "ab"},
		{"subnegotiation", []byte{'x', IAC, SB, 1, 2, 3, IAC, SE, 'y'}, "xy"},
		{"escaped 255", []byte{IAC, IAC, 'z'}, "\xffz"},
	}
	for _, tc := range cases {
		f = telnetFilter{}
		if got := string(f.Filter(tc.in)); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTelnetFilterAcrossReads(t *testing.T) {
	var f telnetFilter
	out := string(f.Filter([]byte{'a', IAC}))
	out += string(f.Filter([]byte{WILL}))
	out += string(f.Filter([]byte{TELOPT_SGA, 'b'}))
	if out != "ab" {
		t.Errorf("split IAC sequence leaked: %q", out)
	}
}

func TestProcessColor(t *testing.T) {
	cases := []struct {
		in   string
		ansi bool
		want string
	}{
		{"plain", true, "plain"},
		{"{rred{x", false, "red"},
		{"{rred{x", true, "\x1b[0;31mred\x1b[0m"},
		{"brace {{", false, "brace {"},
		{"{qunknown", false, "unknown"},
	}
	for _, tc := range cases {
		if got := ProcessColor(tc.in, tc.ansi); got != tc.want {
			t.Errorf("ProcessColor(%q, %v) = %q, want %q", tc.in, tc.ansi, got, tc.want)
		}
	}
}

func TestSessionLineFraming(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	sess := NewSession(server, 1, 8, 64, zap.NewNop())
	sess.Start()
	defer sess.Close()

	// Drain whatever the session writes (telnet negotiation, echoes).
	go io.Copy(io.Discard, client)

	// Backspace eats a character, ^U clears the line, IAC sequences
	// vanish, and CR/LF terminates.
	input := []byte("helX\blo\r\n")
	input = append(input, 0x15) // ^U on an empty line is harmless
	input = append(input, []byte("discarded")...)
	input = append(input, 0x15)
	input = append(input, IAC, WILL, TELOPT_ECHO)
	input = append(input, []byte("world\r\n")...)
	if _, err := client.Write(input); err != nil {
		t.Fatal(err)
	}

	read := func() string {
		select {
		case line := <-sess.InQueue:
			return line
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for a line")
			return ""
		}
	}
	if got := read(); got != "hello" {
		t.Errorf("first line = %q, want %q", got, "hello")
	}
	if got := read(); got != "world" {
		t.Errorf("second line = %q, want %q", got, "world")
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	_, server := net.Pipe()
	sess := NewSession(server, 1, 8, 64, zap.NewNop())
	sess.Close()
	sess.Close()
	if !sess.IsClosed() {
		t.Error("session not closed")
	}
	// Send after close is a no-op.
	sess.Send([]byte("late"))
}
