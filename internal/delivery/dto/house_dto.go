package dto

import "time"

// Request DTOs

type CreateHouseRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=100"`
	Color string `json:"color" validate:"required,hexcolor,len=7"` // Format: #RRGGBB
}

// Response DTOs

type HouseResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Crest     *string   `json:"crest,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type HouseListResponse struct {
	Houses []HouseResponse `json:"houses"`
	Total  int             `json:"total"`
}

type HouseRankingItem struct {
	Position    int     `json:"position"`
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	Crest       *string `json:"crest,omitempty"`
	TotalPoints int64   `json:"total_points"`
}

type CupRankingResponse struct {
	Houses []HouseRankingItem `json:"houses"`
}

type AthleteRankingItem struct {
	Position    int    `json:"position"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalPoints int64  `json:"total_points"`
}

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalPoints int64  `json:"total_points"`
}

type HouseDashboardResponse struct {
	House        HouseResponse        `json:"house"`
	TotalPoints  int64                `json:"total_points"`
	BestCategory *CategoryResponse    `json:"best_category"`
	Athletes     []AthleteRankingItem `json:"athletes"`
}
