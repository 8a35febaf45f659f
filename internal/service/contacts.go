package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/rolodex/internal/domain"
	"github.com/aussiebroadwan/rolodex/internal/store"
	"github.com/aussiebroadwan/rolodex/pkg/idx"
)

const (
	defaultContactPageSize = 20
	maxContactPageSize     = 100
)

// ContactService is thin CRUD glue over the contacts repository. Ownership
// enforcement lives in the store layer: every query is scoped to the owner's
// id, so a foreign contact id simply comes back as not found.
type ContactService struct {
	Store store.Store
}

// CreateContact inserts a contact owned by ownerID and returns it.
func (s *ContactService) CreateContact(ctx context.Context, ownerID, fullName, email, phone string, birthday time.Time) (domain.Contact, error) {
	c := domain.Contact{
		ID:          idx.New().String(),
		UserID:      ownerID,
		FullName:    fullName,
		Email:       email,
		PhoneNumber: phone,
		Birthday:    birthday,
	}
	if err := s.Store.Contacts().CreateContact(ctx, c); err != nil {
		return domain.Contact{}, err
	}
	return s.Store.Contacts().GetContactByID(ctx, ownerID, c.ID)
}

// GetContact returns the owner's contact or store.ErrNotFound.
func (s *ContactService) GetContact(ctx context.Context, ownerID, contactID string) (domain.Contact, error) {
	return s.Store.Contacts().GetContactByID(ctx, ownerID, contactID)
}

// ListContacts pages through the owner's contacts. Limit is clamped to a
// sane range; a zero limit gets the default page size.
func (s *ContactService) ListContacts(ctx context.Context, ownerID string, limit, offset int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = defaultContactPageSize
	}
	if limit > maxContactPageSize {
		limit = maxContactPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.Store.Contacts().ListContacts(ctx, ownerID, limit, offset)
}

// UpdateContact rewrites the mutable fields of an owned contact and returns
// the updated row.
func (s *ContactService) UpdateContact(ctx context.Context, ownerID, contactID, fullName, email, phone string, birthday time.Time) (domain.Contact, error) {
	c := domain.Contact{
		ID:          contactID,
		UserID:      ownerID,
		FullName:    fullName,
		Email:       email,
		PhoneNumber: phone,
		Birthday:    birthday,
	}
	if err := s.Store.Contacts().UpdateContact(ctx, c); err != nil {
		return domain.Contact{}, err
	}
	return s.Store.Contacts().GetContactByID(ctx, ownerID, contactID)
}

// DeleteContact removes an owned contact.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, contactID string) error {
	return s.Store.Contacts().DeleteContact(ctx, ownerID, contactID)
}
