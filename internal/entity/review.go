package entity

// Review timestamps stay RFC3339 strings, the dashboard ingests them
// exactly as the review platform exports them.
type Review struct {
	ID         string `json:"id"`
	AuthorName string `json:"author_name"`
	Rating     int    `json:"rating"`
	Text       string `json:"text"`
	Time       string `json:"time"`
	Reply      string `json:"reply,omitempty"`
	RepliedAt  string `json:"replied_at,omitempty"`
}
