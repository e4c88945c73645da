package dto

import (
	"time"

	marketsvc "stuverse/internal/app/services/market"
	domainmarket "stuverse/internal/domain/market"
	domainuser "stuverse/internal/domain/user"
)

type Listing struct {
	ID          string             `json:"_id"`
	Seller      domainuser.Summary `json:"seller"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Price       float64            `json:"price"`
	Category    string             `json:"category"`
	Condition   string             `json:"condition"`
	Type        string             `json:"type"`
	Images      []string           `json:"images"`
	Status      string             `json:"status"`
	University  string             `json:"university"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ListingCollection struct {
	Items []Listing `json:"items"`
}

func MapListing(listing *domainmarket.Listing, seller domainuser.Summary) Listing {
	images := listing.Images
	if images == nil {
		images = []string{}
	}
	return Listing{
		ID:          string(listing.ID),
		Seller:      seller,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Category:    listing.Category,
		Condition:   string(listing.Condition),
		Type:        string(listing.Type),
		Images:      images,
		Status:      string(listing.Status),
		University:  listing.University,
		CreatedAt:   listing.CreatedAt,
	}
}

func MapListingCollection(views []marketsvc.ListingView) ListingCollection {
	out := ListingCollection{Items: make([]Listing, 0, len(views))}
	for _, v := range views {
		out.Items = append(out.Items, MapListing(v.Listing, v.Seller))
	}
	return out
}
