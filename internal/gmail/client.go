package gmail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/jobagent/internal/google"
)

// Client wraps the Gmail Users service for the authenticated account.
type Client struct {
	svc *gmail.UsersService

	// labelIDs caches label name (lowercased) to ID, filled lazily.
	labelIDs map[string]string
}

// NewClient creates a Gmail client using the cached OAuth token.
func NewClient(ctx context.Context, auth *google.Auth) (*Client, error) {
	httpClient, err := auth.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users}, nil
}

// ListMessages lists message IDs matching the query with pagination. It
// fetches up to maxResults messages, making multiple API calls if necessary.
func (c *Client) ListMessages(ctx context.Context, q string, maxResults int64) ([]*gmail.Message, error) {
	var all []*gmail.Message
	pageToken := ""

	for {
		remaining := maxResults - int64(len(all))
		if remaining <= 0 {
			break
		}

		// Gmail API caps the page size at 100.
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(q).MaxResults(pageSize).Context(ctx)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}

		all = append(all, res.Messages...)

		if res.NextPageToken == "" || int64(len(all)) >= maxResults {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(all)) > maxResults {
		all = all[:maxResults]
	}
	return all, nil
}

// GetMessage retrieves a full Gmail message including its MIME tree.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// MarkRead removes the UNREAD label from a message.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to mark message %s read: %w", messageID, err)
	}
	return nil
}

// MoveToLabel applies the named label to a message and removes it from the
// inbox. The label is created if it does not exist yet.
func (c *Client) MoveToLabel(ctx context.Context, messageID, labelName string) error {
	labelID, err := c.EnsureLabel(ctx, labelName)
	if err != nil {
		return err
	}

	_, err = c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    []string{labelID},
		RemoveLabelIds: []string{"INBOX"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to move message %s to label %q: %w", messageID, labelName, err)
	}
	return nil
}

// EnsureLabel returns the ID of the named label, creating it when absent.
// Matching is case-insensitive since Gmail label names are.
func (c *Client) EnsureLabel(ctx context.Context, name string) (string, error) {
	if id, ok := c.labelIDs[strings.ToLower(name)]; ok {
		return id, nil
	}

	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}

	if c.labelIDs == nil {
		c.labelIDs = make(map[string]string)
	}
	for _, l := range res.Labels {
		c.labelIDs[strings.ToLower(l.Name)] = l.Id
	}
	if id, ok := c.labelIDs[strings.ToLower(name)]; ok {
		return id, nil
	}

	created, err := c.svc.Labels.Create("me", &gmail.Label{
		Name:                  name,
		LabelListVisibility:   "labelShow",
		MessageListVisibility: "show",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create label %q: %w", name, err)
	}

	c.labelIDs[strings.ToLower(name)] = created.Id
	return created.Id, nil
}
