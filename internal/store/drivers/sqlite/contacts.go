package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/domain"
)

type contactsRepo struct {
	db querier
}

const contactColumns = `id, user_id, full_name, email, phone_number, birthday, created_at, updated_at`

func (r *contactsRepo) CreateContact(ctx context.Context, c domain.Contact) error {
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, user_id, full_name, email, phone_number, birthday, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.FullName, c.Email, c.PhoneNumber, formatDate(c.Birthday), now, now,
	)
	return mapConstraint(err)
}

func (r *contactsRepo) GetContactByID(ctx context.Context, userID, contactID string) (domain.Contact, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ? AND user_id = ?`,
		contactID, userID)

	var (
		c                              domain.Contact
		birthday, createdAt, updatedAt string
	)
	err := row.Scan(&c.ID, &c.UserID, &c.FullName, &c.Email, &c.PhoneNumber,
		&birthday, &createdAt, &updatedAt)
	if err != nil {
		return domain.Contact{}, mapNotFound(err)
	}
	c.Birthday = parseDate(birthday)
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}

func (r *contactsRepo) ListContacts(ctx context.Context, userID string, limit, offset int) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE user_id = ?
		 ORDER BY id LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Contact
	for rows.Next() {
		var (
			c                              domain.Contact
			birthday, createdAt, updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.FullName, &c.Email, &c.PhoneNumber,
			&birthday, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.Birthday = parseDate(birthday)
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactsRepo) UpdateContact(ctx context.Context, c domain.Contact) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET full_name = ?, email = ?, phone_number = ?, birthday = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		c.FullName, c.Email, c.PhoneNumber, formatDate(c.Birthday), formatTime(time.Now()),
		c.ID, c.UserID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *contactsRepo) DeleteContact(ctx context.Context, userID, contactID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ? AND user_id = ?`,
		contactID, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
