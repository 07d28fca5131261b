// ABOUTME: Contact directory stored in the contacts collection of a user's dataset
// ABOUTME: Handles contact CRUD and the invite and accept flow
package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/fomo/data"
	"github.com/harperreed/fomo/models"
	"go.uber.org/zap"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrInvalidInviteToken = errors.New("invalid invite token")
	ErrInvalidStatus      = errors.New("invalid contact status")
	ErrFieldNotPatchable  = errors.New("field cannot be patched")
)

// patchable lists the contact fields a patch may touch.
var patchable = map[string]bool{"name": true, "login": true, "status": true, "inviteToken": true}

type Service struct {
	data *data.Service
	log  *zap.SugaredLogger
}

func NewService(svc *data.Service, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{data: svc, log: log}
}

func decodeContact(r models.Record) (*models.Contact, error) {
	if r == nil {
		return nil, nil
	}
	var c models.Contact
	if err := models.Decode(r, &c); err != nil {
		return nil, err
	}
	if c.Status == "" {
		c.Status = models.ContactStatusNone
	}
	return &c, nil
}

// List returns a user's contacts in insertion order.
func (s *Service) List(ctx context.Context, userID string) ([]models.Contact, error) {
	records, err := s.data.GetAll(ctx, models.CollectionContacts, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Contact, 0, len(records))
	for _, r := range records {
		c, err := decodeContact(r)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Create adds a contact. A contact created with an invite token starts as
// invited, otherwise as none.
func (s *Service) Create(ctx context.Context, userID, name, login, inviteToken string) (*models.Contact, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	record := models.Record{
		"name":        name,
		"login":       login,
		"status":      models.ContactStatusNone,
		"inviteToken": nil,
	}
	if inviteToken != "" {
		if !ValidInviteToken(inviteToken) {
			return nil, ErrInvalidInviteToken
		}
		record["status"] = models.ContactStatusInvited
		record["inviteToken"] = strings.TrimSpace(inviteToken)
	}

	created, err := s.data.Create(ctx, models.CollectionContacts, record, userID)
	if err != nil {
		return nil, err
	}
	return decodeContact(created)
}

// Update applies a patch of name, login, status, and inviteToken. Returns
// nil when the contact does not exist.
func (s *Service) Update(ctx context.Context, userID, id string, patch models.Record) (*models.Contact, error) {
	changes := models.Record{}
	for k, v := range patch {
		if !patchable[k] {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotPatchable, k)
		}
		changes[k] = v
	}

	if v, ok := changes["name"]; ok {
		name, _ := v.(string)
		if strings.TrimSpace(name) == "" {
			return nil, ErrNameRequired
		}
		changes["name"] = strings.TrimSpace(name)
	}
	if v, ok := changes["status"]; ok {
		switch v {
		case models.ContactStatusNone, models.ContactStatusInvited, models.ContactStatusAccepted:
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, v)
		}
	}

	updated, err := s.data.Update(ctx, models.CollectionContacts, id, changes, userID)
	if err != nil {
		return nil, err
	}
	return decodeContact(updated)
}

// Delete removes a contact and reports whether it existed.
func (s *Service) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.data.Remove(ctx, models.CollectionContacts, id, userID)
}

// Invite gives a contact a fresh invite token and returns the link to share.
// The contact is nil when it does not exist.
func (s *Service) Invite(ctx context.Context, userID, id, origin string) (string, *models.Contact, error) {
	token := NewInviteToken()
	updated, err := s.data.Update(ctx, models.CollectionContacts, id, models.Record{
		"status":      models.ContactStatusInvited,
		"inviteToken": token,
	}, userID)
	if err != nil || updated == nil {
		return "", nil, err
	}

	s.log.Infow("invite created", "contact", id)
	c, err := decodeContact(updated)
	if err != nil {
		return "", nil, err
	}
	return InviteLink(origin, token), c, nil
}

// Accept marks the contact holding token as accepted by login and clears
// the token. The contact is nil when no contact holds the token.
func (s *Service) Accept(ctx context.Context, ownerID, token, login string) (*models.Contact, error) {
	token = strings.TrimSpace(token)
	if !ValidInviteToken(token) {
		return nil, ErrInvalidInviteToken
	}

	records, err := s.data.GetAll(ctx, models.CollectionContacts, ownerID)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		held, _ := r["inviteToken"].(string)
		if held != token {
			continue
		}
		changes := models.Record{
			"status":      models.ContactStatusAccepted,
			"inviteToken": nil,
		}
		if login != "" {
			changes["login"] = login
		}
		updated, err := s.data.Update(ctx, models.CollectionContacts, r.ID(), changes, ownerID)
		if err != nil {
			return nil, err
		}
		return decodeContact(updated)
	}
	return nil, nil
}
