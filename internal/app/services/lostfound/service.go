package lostfound

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stuverse/internal/app/outbox"
	domainlost "stuverse/internal/domain/lostfound"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

// Service covers the lost-and-found board: report, browse (optionally "near
// me"), and resolve.
type Service struct {
	Items  domainlost.Repository
	Users  domainuser.Repository
	Outbox outbox.Outbox
	Logger *slog.Logger
}

type ItemView struct {
	Item     *domainlost.Item
	Reporter domainuser.Summary
}

type ReportParams struct {
	Title       string
	Description string
	Location    string
	Date        time.Time
	Type        domainlost.ItemType
	Image       string
	Coordinates geo.Coordinates
}

func (s *Service) Report(ctx context.Context, reporter *domainuser.User, params ReportParams) (*domainlost.Item, error) {
	item, err := domainlost.New(domainlost.CreateParams{
		ID:          domainlost.ID(uuid.NewString()),
		ReporterID:  reporter.ID,
		University:  reporter.University,
		Title:       params.Title,
		Description: params.Description,
		Location:    params.Location,
		Date:        params.Date,
		Type:        params.Type,
		Image:       params.Image,
		Coordinates: params.Coordinates,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Items.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("lostfound: save item: %w", err)
	}
	s.record(ctx, "lostitem.reported", string(item.ID), itemEvent{
		ItemID:     string(item.ID),
		ReporterID: string(item.ReporterID),
		Type:       string(item.Type),
		University: item.University,
		At:         item.CreatedAt,
	})
	return item, nil
}

// Browse lists open reports visible to the caller, newest date first. With a
// non-nil near filter, results are restricted to the given radius.
func (s *Service) Browse(ctx context.Context, caller *domainuser.User, near *domainlost.Near) ([]ItemView, error) {
	filter := domainlost.Filter{Near: near}
	if caller.Scoped() {
		filter.University = caller.University
	}
	items, err := s.Items.Open(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("lostfound: browse: %w", err)
	}
	summaries := make(map[domainuser.ID]domainuser.Summary)
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		summary, ok := summaries[item.ReporterID]
		if !ok {
			u, err := s.Users.ByID(ctx, item.ReporterID)
			if err != nil {
				if errors.Is(err, domainuser.ErrNotFound) {
					summary = domainuser.Summary{ID: item.ReporterID}
				} else {
					return nil, fmt.Errorf("lostfound: resolve reporter: %w", err)
				}
			} else {
				summary = u.Summary()
			}
			summaries[item.ReporterID] = summary
		}
		views = append(views, ItemView{Item: item, Reporter: summary})
	}
	return views, nil
}

// Resolve closes a report; only the reporter may do so.
func (s *Service) Resolve(ctx context.Context, caller domainuser.ID, id domainlost.ID) error {
	item, err := s.Items.ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := item.Resolve(caller, time.Now()); err != nil {
		return err
	}
	if err := s.Items.Save(ctx, item); err != nil {
		return fmt.Errorf("lostfound: save item: %w", err)
	}
	return nil
}

type itemEvent struct {
	ItemID     string    `json:"item_id"`
	ReporterID string    `json:"reporter_id"`
	Type       string    `json:"type"`
	University string    `json:"university"`
	At         time.Time `json:"at"`
}

func (s *Service) record(ctx context.Context, name, aggregate string, payload any) {
	if err := outbox.Record(ctx, s.Outbox, name, aggregate, payload); err != nil && s.Logger != nil {
		s.Logger.Warn("outbox record failed", "event", name, "error", err)
	}
}
