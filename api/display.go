package api

type ImageResponse struct {
	ImageURL string `json:"image_url"`
}

type UpdateImageRequest struct {
	Image string `json:"image"`
}

type UpdateImageResponse struct {
	Message string `json:"message"`
}

type ImageListResponse struct {
	Images  []string `json:"images"`
	Current string   `json:"current"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	ImageURL string `json:"image_url"`
}
