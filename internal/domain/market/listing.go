package market

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/shared/geo"
	"stuverse/internal/domain/user"
)

var (
	ErrTitleRequired       = errors.New("market: title is required")
	ErrDescriptionRequired = errors.New("market: description is required")
	ErrCategoryRequired    = errors.New("market: category is required")
	ErrInvalidCondition    = errors.New("market: invalid condition")
	ErrInvalidListingType  = errors.New("market: invalid listing type")
	ErrInvalidPrice        = errors.New("market: price must not be negative")
	ErrTooManyImages       = errors.New("market: at most 3 images allowed")
	ErrNotFound            = errors.New("market: listing not found")
	ErrNotOwner            = errors.New("market: caller does not own this listing")
)

const maxImages = 3

type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionLikeNew Condition = "Like New"
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionPoor    Condition = "Poor"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type ListingType string

const (
	TypeSale ListingType = "Sale"
	TypeSwap ListingType = "Swap"
	TypeBoth ListingType = "Both"
)

func (t ListingType) Valid() bool {
	return t == TypeSale || t == TypeSwap || t == TypeBoth
}

type Status string

const (
	StatusAvailable Status = "Available"
	StatusSold      Status = "Sold"
	StatusSwapped   Status = "Swapped"
)

type ID string

type Listing struct {
	ID          ID
	SellerID    user.ID
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   Condition
	Type        ListingType
	Images      []string
	Status      Status
	University  string
	Coordinates geo.Coordinates
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateParams struct {
	ID          ID
	SellerID    user.ID
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   Condition
	Type        ListingType
	Images      []string
	University  string
	Coordinates geo.Coordinates
	CreatedAt   time.Time
}

func New(params CreateParams) (*Listing, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	category := strings.TrimSpace(params.Category)
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if !params.Condition.Valid() {
		return nil, ErrInvalidCondition
	}
	if !params.Type.Valid() {
		return nil, ErrInvalidListingType
	}
	if params.Price < 0 {
		return nil, ErrInvalidPrice
	}
	if len(params.Images) > maxImages {
		return nil, ErrTooManyImages
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
	return &Listing{
		ID:          params.ID,
		SellerID:    params.SellerID,
		Title:       title,
		Description: description,
		Price:       params.Price,
		Category:    category,
		Condition:   params.Condition,
		Type:        params.Type,
		Images:      append([]string(nil), params.Images...),
		Status:      StatusAvailable,
		University:  university,
		Coordinates: params.Coordinates,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Filter narrows the Available-listings view. University empty means
// unscoped (caller has no declared campus).
type Filter struct {
	Keyword    string
	University string
}

type Repository interface {
	Save(ctx context.Context, listing *Listing) error
	ByID(ctx context.Context, id ID) (*Listing, error)
	// Available lists Available listings matching the filter, newest first.
	Available(ctx context.Context, filter Filter) ([]*Listing, error)
	Delete(ctx context.Context, id ID) error
}
