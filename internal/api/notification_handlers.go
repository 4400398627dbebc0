package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-notifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List notifications",
		Description: "Returns the authenticated user's notifications, newest first",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "unread-count",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/unread-count",
		Summary:     "Unread count",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnreadCount)

	huma.Register(s.api, huma.Operation{
		OperationID: "mark-notification-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark notification read",
		Description: "Idempotent. Unknown IDs and other users' notifications are ignored.",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "mark-all-notifications-read",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/read-all",
		Summary:     "Mark all notifications read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkAllRead)
}

// NotificationResponse contains notification information in API responses.
type NotificationResponse struct {
	ID             string    `json:"id" doc:"Notification ID"`
	CandidateID    string    `json:"candidate_id" doc:"Candidate the note was written on"`
	CandidateName  string    `json:"candidate_name" doc:"Candidate name at notification time"`
	MessageID      string    `json:"message_id" doc:"The note that triggered the notification"`
	MessagePreview string    `json:"message_preview" doc:"Truncated note text"`
	Timestamp      time.Time `json:"timestamp" doc:"Notification time"`
	Read           bool      `json:"read" doc:"Whether the notification has been read"`
}

// NotificationsOutput wraps a notification list.
type NotificationsOutput struct {
	Body struct {
		Notifications []NotificationResponse `json:"notifications"`
	}
}

// UnreadCountOutput wraps the unread counter.
type UnreadCountOutput struct {
	Body struct {
		UnreadCount int `json:"unread_count"`
	}
}

// NotificationIDInput addresses a notification by path parameter.
type NotificationIDInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	ID            string `path:"id" doc:"Notification ID"`
}

// MarkAllReadOutput reports how many notifications changed state.
type MarkAllReadOutput struct {
	Body struct {
		Marked int `json:"marked"`
	}
}

func (s *Server) handleListNotifications(ctx context.Context, input *AuthedInput) (*NotificationsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	notifications, err := s.services.Notification.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &NotificationsOutput{}
	out.Body.Notifications = make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out.Body.Notifications = append(out.Body.Notifications, mapNotificationResponse(n))
	}
	return out, nil
}

func (s *Server) handleUnreadCount(ctx context.Context, input *AuthedInput) (*UnreadCountOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	count, err := s.services.Notification.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &UnreadCountOutput{}
	out.Body.UnreadCount = count
	return out, nil
}

func (s *Server) handleMarkRead(ctx context.Context, input *NotificationIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.MarkRead(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "ok"}}, nil
}

func (s *Server) handleMarkAllRead(ctx context.Context, input *AuthedInput) (*MarkAllReadOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	marked, err := s.services.Notification.MarkAllRead(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &MarkAllReadOutput{}
	out.Body.Marked = marked
	return out, nil
}

func mapNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:             n.ID,
		CandidateID:    n.CandidateID,
		CandidateName:  n.CandidateName,
		MessageID:      n.MessageID,
		MessagePreview: n.MessagePreview,
		Timestamp:      n.Timestamp,
		Read:           n.Read,
	}
}
