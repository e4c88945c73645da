package dto

import (
	"time"

	lostsvc "stuverse/internal/app/services/lostfound"
	domainlost "stuverse/internal/domain/lostfound"
	domainuser "stuverse/internal/domain/user"
)

type LostItem struct {
	ID          string             `json:"_id"`
	Reporter    domainuser.Summary `json:"reporter"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Date        time.Time          `json:"date"`
	Type        string             `json:"type"`
	Image       string             `json:"image,omitempty"`
	Status      string             `json:"status"`
	University  string             `json:"university"`
	Lat         float64            `json:"lat,omitempty"`
	Lng         float64            `json:"lng,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type LostItemCollection struct {
	Items []LostItem `json:"items"`
}

func MapLostItem(item *domainlost.Item, reporter domainuser.Summary) LostItem {
	return LostItem{
		ID:          string(item.ID),
		Reporter:    reporter,
		Title:       item.Title,
		Description: item.Description,
		Location:    item.Location,
		Date:        item.Date,
		Type:        string(item.Type),
		Image:       item.Image,
		Status:      string(item.Status),
		University:  item.University,
		Lat:         item.Coordinates.Lat,
		Lng:         item.Coordinates.Lng,
		CreatedAt:   item.CreatedAt,
	}
}

func MapLostItemCollection(views []lostsvc.ItemView) LostItemCollection {
	out := LostItemCollection{Items: make([]LostItem, 0, len(views))}
	for _, v := range views {
		out.Items = append(out.Items, MapLostItem(v.Item, v.Reporter))
	}
	return out
}
