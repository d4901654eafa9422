package httpwire

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
)

func reader(raw string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(raw))
}

func TestReadRequest(t *testing.T) {
	t.Parallel()

	raw := "POST /reservations HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"content-type: application/json\r\n" +
		"Authorization: Bearer abc-123\r\n" +
		"Content-Length: 23\r\n" +
		"\r\n" +
		`{"day":"WED","hour":14}`

	req, err := ReadRequest(reader(raw))
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if req.Method != "POST" || req.Path != "/reservations" || req.Proto != "HTTP/1.1" {
		t.Fatalf("unexpected request line fields: %+v", req)
	}
	if got := string(req.Body); got != `{"day":"WED","hour":14}` {
		t.Fatalf("unexpected body: %q", got)
	}
	// Header lookup ignores the case used on the wire.
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}
	if got := req.BearerToken(); got != "abc-123" {
		t.Fatalf("unexpected bearer token: %q", got)
	}
	if req.WantsClose() {
		t.Fatal("request without Connection header must not want close")
	}
}

func TestReadRequest_QueryAndBareLF(t *testing.T) {
	t.Parallel()

	req, err := ReadRequest(reader("GET /schedule?verbose=1 HTTP/1.1\nHost: x\n\n"))
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if req.Path != "/schedule" || req.RawQuery != "verbose=1" {
		t.Fatalf("unexpected target split: path=%q query=%q", req.Path, req.RawQuery)
	}
}

func TestReadRequest_CleanEOF(t *testing.T) {
	t.Parallel()

	if _, err := ReadRequest(reader("")); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadRequest_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "missing proto", raw: "GET /schedule\r\n\r\n"},
		{name: "lowercase method", raw: "get /schedule HTTP/1.1\r\n\r\n"},
		{name: "absolute target", raw: "GET http://x/schedule HTTP/1.1\r\n\r\n"},
		{name: "bad proto", raw: "GET /schedule HTTP/2\r\n\r\n"},
		{name: "header without colon", raw: "GET /schedule HTTP/1.1\r\nHost localhost\r\n\r\n"},
		{name: "empty header name", raw: "GET /schedule HTTP/1.1\r\n: value\r\n\r\n"},
		{name: "bad content length", raw: "POST /login HTTP/1.1\r\nContent-Length: ten\r\n\r\n"},
		{name: "negative content length", raw: "POST /login HTTP/1.1\r\nContent-Length: -1\r\n\r\n"},
		{name: "truncated body", raw: "POST /login HTTP/1.1\r\nContent-Length: 50\r\n\r\n{}"},
		{name: "truncated headers", raw: "GET /schedule HTTP/1.1\r\nHost: x\r\n"},
		{name: "garbage", raw: "hello there\r\n\r\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadRequest(reader(tc.raw))
			var fErr *FramingError
			if !errors.As(err, &fErr) {
				t.Fatalf("expected FramingError, got %v", err)
			}
		})
	}
}

func TestReadRequest_LineLengthCap(t *testing.T) {
	t.Parallel()

	// A header line longer than the cap is rejected even though the stream
	// never sends a terminator for it.
	raw := "GET /schedule HTTP/1.1\r\nX-Padding: " + strings.Repeat("a", maxLineLength)
	_, err := ReadRequest(reader(raw))
	var fErr *FramingError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FramingError, got %v", err)
	}

	// A long but legal line, larger than one bufio buffer, still parses.
	long := strings.Repeat("b", 6000)
	raw = "GET /schedule HTTP/1.1\r\nX-Padding: " + long + "\r\n\r\n"
	req, err := ReadRequest(reader(raw))
	if err != nil {
		t.Fatalf("ReadRequest failed: %v", err)
	}
	if got := req.Header.Get("X-Padding"); got != long {
		t.Fatalf("long header truncated, got %d bytes", len(got))
	}
}

func TestReadRequest_OversizedDeclaredBody(t *testing.T) {
	t.Parallel()

	raw := "POST /login HTTP/1.1\r\nContent-Length: 9999999\r\n\r\n"
	_, err := ReadRequest(reader(raw))
	var fErr *FramingError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FramingError, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "well formed", value: "Bearer tok", want: "tok"},
		{name: "padded", value: "  Bearer  tok  ", want: "tok"},
		{name: "wrong scheme", value: "Basic dXNlcjox", want: ""},
		{name: "lowercase scheme", value: "bearer tok", want: ""},
		{name: "missing", value: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &Request{Header: make(Header)}
			if tc.value != "" {
				req.Header.Set("Authorization", tc.value)
			}
			if got := req.BearerToken(); got != tc.want {
				t.Fatalf("BearerToken() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWantsClose(t *testing.T) {
	t.Parallel()

	req := &Request{Header: make(Header)}
	req.Header.Set("Connection", "Close")
	if !req.WantsClose() {
		t.Fatal("expected WantsClose for Connection: Close")
	}
	req.Header.Set("Connection", "keep-alive")
	if req.WantsClose() {
		t.Fatal("unexpected WantsClose for keep-alive")
	}
}
