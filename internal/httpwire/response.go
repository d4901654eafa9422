package httpwire

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Response is a structured HTTP response. Content-Length is computed at
// write time from the actual body; caller supplied lengths are ignored.
type Response struct {
	Status int
	Header Header
	Body   []byte
}

// NewResponse builds an empty response with the given status.
func NewResponse(status int) *Response {
	return &Response{Status: status, Header: make(Header)}
}

// NewJSONResponse builds a response carrying a JSON body.
func NewJSONResponse(status int, payload any) (*Response, error) {
	resp := NewResponse(status)
	if payload == nil {
		return resp, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode response body: %w", err)
	}
	resp.Body = body
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

// WriteTo serializes the response as status line, header block and body.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s\r\n", r.Status, StatusText(r.Status))
	for name, value := range r.Header {
		if strings.EqualFold(name, "content-length") {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", canonicalName(name), value)
	}
	fmt.Fprintf(&buf, "Content-Length: %d\r\n\r\n", len(r.Body))
	buf.Write(r.Body)
	return buf.WriteTo(w)
}

// WriteTo serializes the request for the client side of the protocol.
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	target := r.Path
	if r.RawQuery != "" {
		target += "?" + r.RawQuery
	}
	proto := r.Proto
	if proto == "" {
		proto = "HTTP/1.1"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s %s\r\n", r.Method, target, proto)
	for name, value := range r.Header {
		if strings.EqualFold(name, "content-length") {
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\r\n", canonicalName(name), value)
	}
	if len(r.Body) > 0 {
		fmt.Fprintf(&buf, "Content-Length: %d\r\n", len(r.Body))
	}
	buf.WriteString("\r\n")
	buf.Write(r.Body)
	return buf.WriteTo(w)
}

// ReadResponse parses one complete response from the stream, used by the
// interactive client.
func ReadResponse(br *bufio.Reader) (*Response, error) {
	line, err := readLine(br)
	if err != nil {
		if errors.Is(err, io.EOF) && line == "" {
			return nil, io.EOF
		}
		return nil, &FramingError{Reason: "reading status line", Err: err}
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return nil, framingErr("malformed status line")
	}
	status, err := strconv.Atoi(parts[1])
	if err != nil || status < 100 || status > 599 {
		return nil, framingErr("invalid status code")
	}

	header, err := readHeaders(br)
	if err != nil {
		return nil, err
	}
	body, err := readBody(br, header)
	if err != nil {
		return nil, err
	}

	return &Response{Status: status, Header: header, Body: body}, nil
}

// StatusText returns the reason phrase for the status codes this protocol
// uses.
func StatusText(status int) string {
	switch status {
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 204:
		return "No Content"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 409:
		return "Conflict"
	case 500:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}

// canonicalName restores conventional Header-Name casing from the
// lower-cased storage form.
func canonicalName(name string) string {
	parts := strings.Split(name, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "-")
}
