package dto

import (
	"time"

	"ejaraat_backend/internal/models"
)

type NotificationResponse struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"property_id,omitempty"`
	PropertyName string    `json:"property_name,omitempty"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"is_read"`
	Timestamp    time.Time `json:"timestamp"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int64                  `json:"unread"`
	HTML          string                 `json:"html"`
}

type ClearNotificationsResponse struct {
	Cleared int64  `json:"cleared"`
	HTML    string `json:"html"`
}

func NewNotificationResponse(n *models.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		Timestamp: n.Timestamp,
	}
	if n.PropertyID != nil {
		resp.PropertyID = *n.PropertyID
	}
	if n.Property != nil {
		resp.PropertyName = n.Property.Name
	}
	return resp
}
