package dto

type VideoDTO struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
	DataURL  string `json:"dataUrl"`
	Likes    int64  `json:"likes"`
}

// Sunucu tarafından atanan alanlar (id, dataUrl, likes) istekte yok sayılır
type CreateVideoRequestDTO struct {
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
}

type VideoStatusDTO struct {
	State string `json:"state"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
