package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
)

// HeaderValue returns the value of a message header, or "" when absent.
// Header names are matched case-insensitively.
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// MessageBody extracts the text/plain body from a message, falling back to
// text/html when no plain part exists.
func MessageBody(msg *gmail.Message) (string, error) {
	if msg == nil || msg.Payload == nil {
		return "", fmt.Errorf("message has no payload")
	}

	for _, mimeType := range []string{"text/plain", "text/html"} {
		var data string
		if msg.Payload.MimeType == mimeType && msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
			data = msg.Payload.Body.Data
		} else {
			walkParts(msg.Payload, func(part *gmail.MessagePart) {
				if data == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
					data = part.Body.Data
				}
			})
		}
		if data != "" {
			return decodeBody(data)
		}
	}
	return "", fmt.Errorf("no text body found in message")
}

// decodeBody decodes Gmail's base64url body data, falling back to standard
// base64 for the occasional non-conforming producer.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}
	return string(decoded), nil
}

// walkParts recursively walks through message parts.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
