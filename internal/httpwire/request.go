// Package httpwire frames HTTP/1.1-style messages directly on byte streams.
// Both the server and the interactive client exchange complete fixed-length
// messages; chunked transfer encoding is not supported. Malformed input
// surfaces as a *FramingError at this single boundary.
package httpwire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineLength bounds request/status lines and header lines so a hostile
// peer cannot grow memory without ever sending a line terminator.
const maxLineLength = 8 * 1024

// maxBodyLength bounds declared Content-Length values. The protocol only
// carries small JSON objects.
const maxBodyLength = 1 << 20

// FramingError reports malformed or incomplete HTTP bytes. The connection
// handler answers it with a 400 and closes the connection.
type FramingError struct {
	Reason string
	Err    error
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("httpwire: %s: %v", e.Reason, e.Err)
	}
	return "httpwire: " + e.Reason
}

func (e *FramingError) Unwrap() error { return e.Err }

func framingErr(reason string) error {
	return &FramingError{Reason: reason}
}

// Header holds message headers with case-insensitive keys.
type Header map[string]string

// Get returns the value for a header name, matching case-insensitively.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Set stores a header value under the lower-cased name.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Request is a parsed HTTP request.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Proto    string
	Header   Header
	Body     []byte
}

// BearerToken extracts the token from an Authorization header of the form
// "Bearer <token>", or returns the empty string.
func (r *Request) BearerToken() string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
	}
	return ""
}

// WantsClose reports whether the client asked to end the connection after
// this exchange.
func (r *Request) WantsClose() bool {
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("Connection")), "close")
}

// ReadRequest parses one complete request from the stream. A clean
// end-of-stream before any byte arrives returns io.EOF; everything else that
// goes wrong returns a *FramingError.
func ReadRequest(br *bufio.Reader) (*Request, error) {
	line, err := readLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return nil, io.EOF
		}
		return nil, &FramingError{Reason: "reading request line", Err: err}
	}

	method, target, proto, err := parseRequestLine(line)
	if err != nil {
		return nil, err
	}

	header, err := readHeaders(br)
	if err != nil {
		return nil, err
	}

	body, err := readBody(br, header)
	if err != nil {
		return nil, err
	}

	path, rawQuery, _ := strings.Cut(target, "?")
	return &Request{
		Method:   method,
		Path:     path,
		RawQuery: rawQuery,
		Proto:    proto,
		Header:   header,
		Body:     body,
	}, nil
}

func parseRequestLine(line string) (method, target, proto string, err error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return "", "", "", framingErr("malformed request line")
	}
	method, target, proto = parts[0], parts[1], parts[2]
	if !validMethodToken(method) {
		return "", "", "", framingErr("invalid method token")
	}
	if !strings.HasPrefix(target, "/") {
		return "", "", "", framingErr("request target must be origin-form")
	}
	if proto != "HTTP/1.1" && proto != "HTTP/1.0" {
		return "", "", "", framingErr("unsupported protocol version")
	}
	return method, target, proto, nil
}

func validMethodToken(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func readHeaders(br *bufio.Reader) (Header, error) {
	header := make(Header)
	for {
		line, err := readLine(br)
		if err != nil {
			return nil, &FramingError{Reason: "reading headers", Err: err}
		}
		if line == "" {
			return header, nil
		}
		name, value, found := strings.Cut(line, ":")
		if !found || strings.TrimSpace(name) == "" {
			return nil, framingErr("malformed header line")
		}
		header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}
}

func readBody(br *bufio.Reader, header Header) ([]byte, error) {
	declared := header.Get("Content-Length")
	if declared == "" {
		return nil, nil
	}
	length, err := strconv.Atoi(declared)
	if err != nil || length < 0 {
		return nil, framingErr("invalid Content-Length")
	}
	if length == 0 {
		return nil, nil
	}
	if length > maxBodyLength {
		return nil, framingErr("declared body too large")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, &FramingError{Reason: "body shorter than Content-Length", Err: err}
	}
	return body, nil
}

// readLine reads one CRLF (or bare LF) terminated line without the
// terminator. It accumulates buffer-sized chunks and aborts as soon as the
// running length exceeds maxLineLength, so a peer that never sends a
// terminator cannot grow memory past the cap.
func readLine(br *bufio.Reader) (string, error) {
	var raw []byte
	for {
		chunk, err := br.ReadSlice('\n')
		raw = append(raw, chunk...)
		if len(raw) > maxLineLength {
			return "", errors.New("line too long")
		}
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == io.EOF && len(raw) > 0 {
			return string(raw), io.ErrUnexpectedEOF
		}
		return string(raw), err
	}
	line := strings.TrimSuffix(string(raw), "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
