package review

import "BistroGolang/internal/entity"

type IngestReviewRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=100"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Text       string `json:"text" validate:"omitempty,max=2000"`
	Time       string `json:"time" validate:"omitempty"`
}

type ReviewResponse struct {
	Review  entity.Review `json:"review"`
	Message string        `json:"message,omitempty"`
}

type ListReviewsResponse struct {
	Reviews []entity.Review `json:"reviews"`
	Total   int             `json:"total"`
}
