package services

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wallpresentation/internal/models"
)

// ClientService manages registered viewer identities
type ClientService struct {
	database *sql.DB
}

// NewClientService creates a new client service
func NewClientService(database *sql.DB) *ClientService {
	return &ClientService{
		database: database,
	}
}

// CreateClient registers a new client for a presentation
func (cs *ClientService) CreateClient(presentationID, name string) (*models.Client, error) {
	if presentationID == "" {
		return nil, fmt.Errorf("presentationId is required")
	}

	id := uuid.NewString()
	now := time.Now()

	query := `INSERT INTO clients (id, presentation_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	if _, err := cs.database.Exec(query, id, presentationID, name, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert client: %w", err)
	}

	log.Printf("Client registered: id=%s, presentation=%s, name=%s", id, presentationID, name)

	return cs.GetClient(id)
}

// GetClient returns a client by its id
func (cs *ClientService) GetClient(id string) (*models.Client, error) {
	query := `SELECT id, presentation_id, name, created_at, updated_at
		FROM clients WHERE id = ?`

	var client models.Client
	err := cs.database.QueryRow(query, id).Scan(
		&client.ID,
		&client.PresentationID,
		&client.Name,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("client not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query client: %w", err)
	}

	return &client, nil
}

// GetClientsByPresentation returns all clients registered for a presentation
func (cs *ClientService) GetClientsByPresentation(presentationID string) ([]*models.Client, error) {
	query := `SELECT id, presentation_id, name, created_at, updated_at
		FROM clients WHERE presentation_id = ? ORDER BY created_at DESC`

	rows, err := cs.database.Query(query, presentationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		var client models.Client
		err := rows.Scan(
			&client.ID,
			&client.PresentationID,
			&client.Name,
			&client.CreatedAt,
			&client.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, &client)
	}

	return clients, rows.Err()
}

// DeleteClient removes a client from the system
func (cs *ClientService) DeleteClient(id string) error {
	query := `DELETE FROM clients WHERE id = ?`
	result, err := cs.database.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client not found: %s", id)
	}

	log.Printf("Client deleted: %s", id)
	return nil
}
