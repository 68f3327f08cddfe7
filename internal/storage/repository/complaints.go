package repository

import (
	"context"
	"fmt"

	"github.com/renteaseone/rentease-backend/internal/models"
)

// CreateComplaint сохраняет жалобу арендатора и возвращает её ID.
func (s *Storage) CreateComplaint(ctx context.Context, complaint models.Complaint) (int, error) {
	const op = "storage.CreateComplaint"

	var newID int
	query := `INSERT INTO complaints (tenant_uid, landlord_uid, title, description)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		complaint.TenantUID, complaint.LandlordUID, complaint.Title, complaint.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListComplaints возвращает жалобы арендодателя с именами арендаторов,
// новые первыми.
func (s *Storage) ListComplaints(ctx context.Context, landlordUID string) ([]*models.ComplaintInfo, error) {
	const op = "storage.ListComplaints"

	query := `SELECT c.id, c.tenant_uid, c.landlord_uid, c.title, c.description, c.created_at,
			      u.first_name, u.last_name, u.email
			  FROM complaints c
			  JOIN users u ON u.uid = c.tenant_uid
			  WHERE c.landlord_uid = $1
			  ORDER BY c.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, landlordUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var complaints []*models.ComplaintInfo
	for rows.Next() {
		c := &models.ComplaintInfo{}
		if err := rows.Scan(&c.ID, &c.TenantUID, &c.LandlordUID, &c.Title, &c.Description,
			&c.CreatedAt, &c.TenantFirstName, &c.TenantLastName, &c.TenantEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return complaints, nil
}
