package hub

import "facilitydesk/backend/internal/models"

// Client is one live connection of a signed-in user.
type Client interface {
	// UserID is the account the connection authenticated as.
	UserID() uint
	// SendChannel receives notifications addressed to UserID. Only the
	// Manager writes to it and only the Manager closes it, through Close.
	SendChannel() chan<- models.Notification
	// Run starts the connection pumps.
	Run()
	Close()
}
