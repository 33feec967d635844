package models

import "time"

// Client is a registered viewer identity for a presentation. Its ID is what
// the scanned launch link carries; analytics events are attributed to it.
type Client struct {
	ID             string    `json:"id"`
	PresentationID string    `json:"presentationId"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
