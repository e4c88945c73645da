package lostfound

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/shared/geo"
	"stuverse/internal/domain/user"
)

var (
	ErrTitleRequired       = errors.New("lostfound: title is required")
	ErrDescriptionRequired = errors.New("lostfound: description is required")
	ErrLocationRequired    = errors.New("lostfound: location is required")
	ErrDateRequired        = errors.New("lostfound: date is required")
	ErrInvalidItemType     = errors.New("lostfound: type must be Lost or Found")
	ErrNotFound            = errors.New("lostfound: item not found")
	ErrNotOwner            = errors.New("lostfound: caller does not own this report")
)

type ItemType string

const (
	TypeLost  ItemType = "Lost"
	TypeFound ItemType = "Found"
)

func (t ItemType) Valid() bool {
	return t == TypeLost || t == TypeFound
}

type Status string

const (
	StatusOpen     Status = "Open"
	StatusResolved Status = "Resolved"
)

type ID string

type Item struct {
	ID          ID
	ReporterID  user.ID
	University  string
	Title       string
	Description string
	Location    string
	Date        time.Time
	Type        ItemType
	Image       string
	Status      Status
	Coordinates geo.Coordinates
	Geometry    geo.Point
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          ID
	ReporterID  user.ID
	University  string
	Title       string
	Description string
	Location    string
	Date        time.Time
	Type        ItemType
	Image       string
	Coordinates geo.Coordinates
	CreatedAt   time.Time
}

func New(params CreateParams) (*Item, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	location := strings.TrimSpace(params.Location)
	if location == "" {
		return nil, ErrLocationRequired
	}
	if params.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if !params.Type.Valid() {
		return nil, ErrInvalidItemType
	}
	university := strings.TrimSpace(params.University)
	if university == "" {
		university = user.UniversityUnspecified
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	item := &Item{
		ID:          params.ID,
		ReporterID:  params.ReporterID,
		University:  university,
		Title:       title,
		Description: description,
		Location:    location,
		Date:        params.Date.UTC(),
		Type:        params.Type,
		Image:       strings.TrimSpace(params.Image),
		Status:      StatusOpen,
		Coordinates: params.Coordinates,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !params.Coordinates.Zero() {
		item.Geometry = geo.NewPoint(params.Coordinates.Lat, params.Coordinates.Lng)
	}
	return item, nil
}

func (i *Item) Resolve(by user.ID, now time.Time) error {
	if i.ReporterID != by {
		return ErrNotOwner
	}
	i.Status = StatusResolved
	if now.IsZero() {
		now = time.Now()
	}
	i.UpdatedAt = now.UTC()
	return nil
}

// Near restricts results to a circle around a point; RadiusKm defaults to 5
// when zero.
type Near struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

func (n *Near) RadiusMeters() float64 {
	r := n.RadiusKm
	if r <= 0 {
		r = 5
	}
	return r * 1000
}

type Filter struct {
	University string
	Near       *Near
}

type Repository interface {
	Save(ctx context.Context, item *Item) error
	ByID(ctx context.Context, id ID) (*Item, error)
	// Open lists Open reports matching the filter, most recent date first.
	Open(ctx context.Context, filter Filter) ([]*Item, error)
}
