package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sahitha-chunduri/projectflow/internal/models"
	"github.com/Sahitha-chunduri/projectflow/internal/repository"
)

var (
	ErrContactNotFound   = errors.New("contact not found")
	ErrContactNameNeeded = errors.New("contact name is required")
	ErrContactEmailTaken = errors.New("a contact with this email already exists")
)

// ContactService handles the per-user address book. Contacts are exclusively
// scoped to their owner; deletion flips isActive rather than removing the
// document.
type ContactService struct {
	contactRepo repository.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(contactRepo repository.ContactRepository) *ContactService {
	return &ContactService{contactRepo: contactRepo}
}

// ContactInput represents input for creating a contact.
type ContactInput struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Position string
	Notes    string
	Tags     []string
}

// CreateContact creates a contact owned by the caller. Emails are case-folded
// and unique per owner.
func (s *ContactService) CreateContact(ctx context.Context, ownerID primitive.ObjectID, input ContactInput) (*models.Contact, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrContactNameNeeded
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	contact := &models.Contact{
		UserID:    ownerID,
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     input.Phone,
		Company:   input.Company,
		Position:  input.Position,
		Notes:     input.Notes,
		Tags:      tags,
		IsActive:  true,
		CreatedAt: now(),
		UpdatedAt: now(),
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactEmailTaken
		}
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// GetContact returns one of the owner's contacts. Contacts belonging to other
// users are reported as not found.
func (s *ContactService) GetContact(ctx context.Context, ownerID, contactID primitive.ObjectID) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact.UserID != ownerID || !contact.IsActive {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

// ListContacts returns a page of the owner's active contacts.
func (s *ContactService) ListContacts(ctx context.Context, ownerID primitive.ObjectID, offset, limit int) ([]models.Contact, int64, error) {
	contacts, total, err := s.contactRepo.List(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}

// UpdateContactInput represents a partial contact update.
type UpdateContactInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Company  *string
	Position *string
	Notes    *string
	Tags     *[]string
}

// UpdateContact applies only the provided fields.
func (s *ContactService) UpdateContact(ctx context.Context, ownerID, contactID primitive.ObjectID, input UpdateContactInput) (*models.Contact, error) {
	contact, err := s.GetContact(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrContactNameNeeded
		}
		contact.Name = name
	}
	if input.Email != nil {
		contact.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		contact.Phone = *input.Phone
	}
	if input.Company != nil {
		contact.Company = *input.Company
	}
	if input.Position != nil {
		contact.Position = *input.Position
	}
	if input.Notes != nil {
		contact.Notes = *input.Notes
	}
	if input.Tags != nil {
		contact.Tags = *input.Tags
	}
	contact.UpdatedAt = now()

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactEmailTaken
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

// DeleteContact soft-deletes one of the owner's contacts.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, contactID primitive.ObjectID) error {
	contact, err := s.GetContact(ctx, ownerID, contactID)
	if err != nil {
		return err
	}

	contact.IsActive = false
	contact.UpdatedAt = now()

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	return nil
}
