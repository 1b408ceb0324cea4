package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// MaxAttachmentSize is the largest attachment fetched, in bytes (25MB).
const MaxAttachmentSize = 25 * 1024 * 1024

// AttachmentInfo describes one attachment of a message.
type AttachmentInfo struct {
	MessageID    string
	AttachmentID string
	Filename     string
	MimeType     string
	Size         int64
}

// ListAttachments extracts the attachment metadata from an already-fetched
// message.
func ListAttachments(msg *gmail.Message) []AttachmentInfo {
	if msg == nil {
		return nil
	}

	var attachments []AttachmentInfo
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
			attachments = append(attachments, AttachmentInfo{
				MessageID:    msg.Id,
				AttachmentID: part.Body.AttachmentId,
				Filename:     part.Filename,
				MimeType:     part.MimeType,
				Size:         part.Body.Size,
			})
		}
	})
	return attachments
}

// GetAttachment retrieves and decodes the content of an attachment.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	// Gmail uses RFC 4648 base64url encoding; fall back to standard base64.
	data, err := base64.URLEncoding.DecodeString(attachment.Data)
	if err != nil {
		data, err = base64.StdEncoding.DecodeString(attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attachment data: %w", err)
		}
	}
	return data, nil
}
