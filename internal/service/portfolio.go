package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/seeek/portfolio/backend/internal/apperr"
	"github.com/seeek/portfolio/backend/internal/models"
	"github.com/seeek/portfolio/backend/internal/store"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PortfolioService handles the per-user portfolio sequences
type PortfolioService struct {
	portfolios *store.Collection[models.Portfolio]
	logger     *slog.Logger
}

var _ IPortfolioService = (*PortfolioService)(nil)

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(db *gorm.DB, logger *slog.Logger) *PortfolioService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortfolioService{
		portfolios: store.Portfolios(db),
		logger:     logger.With(slog.String("component", "portfolio_service")),
	}
}

func (s *PortfolioService) load(ctx context.Context, email string, field models.Field) (*models.Portfolio, []any, error) {
	if _, ok := models.ParseField(string(field)); !ok {
		return nil, nil, apperr.BadRequest(fmt.Sprintf("Unknown portfolio field %q", field))
	}

	p, err := s.portfolios.FindOne(ctx, "email", normalizeEmail(email))
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil, apperr.NotFound("Portfolio not found")
	}
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}

	seq, err := decodeSequence(p.Get(field))
	if err != nil {
		return nil, nil, apperr.Internal(fmt.Errorf("decode %s: %w", field, err))
	}
	return p, seq, nil
}

func (s *PortfolioService) save(ctx context.Context, email string, field models.Field, seq []any) error {
	raw, err := encodeSequence(seq)
	if err != nil {
		return apperr.BadRequest(fmt.Sprintf("Invalid %s payload", field))
	}
	if _, err := s.portfolios.UpdateOne(ctx, "email", normalizeEmail(email), map[string]any{string(field): raw}); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetField returns the stored sequence, or an empty one
func (s *PortfolioService) GetField(ctx context.Context, email string, field models.Field) ([]any, error) {
	_, seq, err := s.load(ctx, email, field)
	return seq, err
}

// ReplaceField overwrites the whole field
func (s *PortfolioService) ReplaceField(ctx context.Context, email string, field models.Field, seq []any) error {
	if _, _, err := s.load(ctx, email, field); err != nil {
		return err
	}
	return s.save(ctx, email, field, seq)
}

// ClearField resets the field to an empty sequence
func (s *PortfolioService) ClearField(ctx context.Context, email string, field models.Field) error {
	return s.ReplaceField(ctx, email, field, []any{})
}

// AddLink appends a {name, link} entry
func (s *PortfolioService) AddLink(ctx context.Context, email, name, link string) error {
	if name == "" || link == "" {
		return apperr.BadRequest("Both name and link are required")
	}

	_, links, err := s.load(ctx, email, models.FieldLinks)
	if err != nil {
		return err
	}
	links = append(links, map[string]any{"name": name, "link": link})
	return s.save(ctx, email, models.FieldLinks, links)
}

// RemoveLink drops every link with the given name. Nothing matching is not an error.
func (s *PortfolioService) RemoveLink(ctx context.Context, email, name string) error {
	if name == "" {
		return apperr.BadRequest("Link name is required")
	}

	_, links, err := s.load(ctx, email, models.FieldLinks)
	if err != nil {
		return err
	}

	kept := make([]any, 0, len(links))
	for _, entry := range links {
		if obj, ok := entry.(map[string]any); ok && obj["name"] == name {
			continue
		}
		kept = append(kept, entry)
	}
	if len(kept) == len(links) {
		s.logger.Debug("no link to remove", slog.String("email", email), slog.String("name", name))
		return nil
	}
	return s.save(ctx, email, models.FieldLinks, kept)
}

// RemoveValue drops every element equal to value. It reports whether anything changed.
func (s *PortfolioService) RemoveValue(ctx context.Context, email string, field models.Field, value any) (bool, error) {
	target, err := normalize(value)
	if err != nil {
		return false, apperr.BadRequest("Invalid value")
	}

	_, seq, err := s.load(ctx, email, field)
	if err != nil {
		return false, err
	}

	kept := make([]any, 0, len(seq))
	for _, elem := range seq {
		if !reflect.DeepEqual(elem, target) {
			kept = append(kept, elem)
		}
	}
	if len(kept) == len(seq) {
		return false, nil
	}
	return true, s.save(ctx, email, field, kept)
}

// ReplaceValue swaps the first element equal to old for replacement. It
// reports whether anything changed.
func (s *PortfolioService) ReplaceValue(ctx context.Context, email string, field models.Field, old, replacement any) (bool, error) {
	target, err := normalize(old)
	if err != nil {
		return false, apperr.BadRequest("Invalid value")
	}
	next, err := normalize(replacement)
	if err != nil {
		return false, apperr.BadRequest("Invalid replacement value")
	}

	_, seq, err := s.load(ctx, email, field)
	if err != nil {
		return false, err
	}

	for i, elem := range seq {
		if reflect.DeepEqual(elem, target) {
			seq[i] = next
			return true, s.save(ctx, email, field, seq)
		}
	}
	return false, nil
}

func decodeSequence(raw datatypes.JSON) ([]any, error) {
	seq := []any{}
	if len(raw) == 0 {
		return seq, nil
	}
	if err := decodeJSON(raw, &seq); err != nil {
		return nil, err
	}
	if seq == nil {
		seq = []any{}
	}
	return seq, nil
}

func encodeSequence(seq []any) (datatypes.JSON, error) {
	if seq == nil {
		seq = []any{}
	}
	b, err := json.Marshal(seq)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// decodeJSON keeps numbers as json.Number so integers beyond 2^53 survive intact
func decodeJSON(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}

// normalize round-trips v through JSON so it compares equal to decoded elements
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := decodeJSON(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// sequenceLen counts the elements of a stored field; undecodable data counts as empty
func sequenceLen(raw datatypes.JSON) int {
	seq, err := decodeSequence(raw)
	if err != nil {
		return 0
	}
	return len(seq)
}
