package model

import "time"

// Album groups gallery images.
type Album struct {
	ID          string    `json:"id" bson:"_id" firestore:"id"`
	AlbumName   string    `json:"albumName" bson:"albumName" firestore:"albumName"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" firestore:"description,omitempty"`
	Date        string    `json:"date,omitempty" bson:"date,omitempty" firestore:"date,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
}

// Image belongs to exactly one album through AlbumID.
type Image struct {
	ID        string     `json:"id" bson:"_id" firestore:"id"`
	URL       string     `json:"url" bson:"url" firestore:"url"`
	AlbumID   string     `json:"albumId" bson:"albumId" firestore:"albumId"`
	Caption   string     `json:"caption,omitempty" bson:"caption,omitempty" firestore:"caption,omitempty"`
	Date      string     `json:"date,omitempty" bson:"date,omitempty" firestore:"date,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
}

// Gallery is the wire shape of the whole gallery.
type Gallery struct {
	Albums []Album `json:"albums"`
	Images []Image `json:"images"`
}

// AlbumWithImages is one album and the images referencing it.
type AlbumWithImages struct {
	Album  Album   `json:"album"`
	Images []Image `json:"images"`
}

// ImagesFor returns the images of albumID in stored order.
func (g *Gallery) ImagesFor(albumID string) []Image {
	out := make([]Image, 0)
	for _, img := range g.Images {
		if img.AlbumID == albumID {
			out = append(out, img)
		}
	}
	return out
}

// FindAlbum returns the album with id, if present.
func (g *Gallery) FindAlbum(id string) (Album, bool) {
	for _, a := range g.Albums {
		if a.ID == id {
			return a, true
		}
	}
	return Album{}, false
}
