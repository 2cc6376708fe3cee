package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/maxviazov/campaign-site/internal/model"
	"github.com/maxviazov/campaign-site/internal/repository"
	"github.com/rs/zerolog"
)

type contactService struct {
	repo repository.ContactRepository
	log  zerolog.Logger
}

func NewContactService(repo repository.ContactRepository, logger zerolog.Logger) ContactService {
	l := logger.With().Str("module", "service").Str("component", "contact").Logger()
	return &contactService{repo: repo, log: l}
}

func (s *contactService) Submit(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error) {
	m.ID = uuid.NewString()
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
	m.Read = false

	if err := validateStruct(m); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("contact validation failed")
		return model.ContactMessage{}, err
	}
	out, err := s.repo.Create(ctx, m)
	if err != nil {
		s.log.Error().Err(err).Msg("store contact message failed")
		return model.ContactMessage{}, err
	}
	// sender address stays out of the logs
	s.log.Info().Str("id", out.ID).Int("length", len(out.Message)).Msg("contact message received")
	return out, nil
}

func (s *contactService) List(ctx context.Context, page repository.Page, unreadOnly bool) (repository.PageResult[model.ContactMessage], error) {
	p := normalizePage(page)
	res, err := s.repo.List(ctx, p, unreadOnly)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list contact messages failed")
		return repository.PageResult[model.ContactMessage]{}, err
	}
	if res.Items == nil {
		res.Items = []model.ContactMessage{}
	}
	return res, nil
}

func (s *contactService) MarkRead(ctx context.Context, id string, read bool) (model.ContactMessage, error) {
	if err := validateID(id); err != nil {
		return model.ContactMessage{}, err
	}
	return s.repo.SetRead(ctx, strings.TrimSpace(id), read)
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Str("id", id).Msg("delete contact message failed")
	}
	return err
}
