package usecase

// CreateAlbumRequest creates an album. ID is optional.
type CreateAlbumRequest struct {
	ID          string `json:"id,omitempty"`
	AlbumName   string `json:"albumName"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date,omitempty"`
}

// ImageRequest adds or updates an image. For updates ID is required and nil
// optional fields keep their stored value.
type ImageRequest struct {
	ID      string  `json:"id,omitempty"`
	URL     string  `json:"url"`
	AlbumID string  `json:"albumId"`
	Caption *string `json:"caption,omitempty"`
	Date    *string `json:"date,omitempty"`
}

// DeleteSubmissionRequest identifies a submission by store id or, for older
// clients, by its exact timestamp.
type DeleteSubmissionRequest struct {
	ID          string `json:"id,omitempty"`
	SubmittedAt string `json:"submittedAt,omitempty"`
}

// DeleteAlbumRequest is the body of DELETE /api/gallery.
type DeleteAlbumRequest struct {
	AlbumID string `json:"albumId"`
}

// DeleteImageRequest is the body of DELETE /api/gallery/image.
type DeleteImageRequest struct {
	ID string `json:"id"`
}
