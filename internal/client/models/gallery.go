package models

// GalleryImage pairs a local image handle with the canonical remote path it
// will be stored under.
type GalleryImage struct {
	// LocalURI is the device-local handle (file path or content URI).
	LocalURI string

	// RemotePath is the canonical remote blob path derived for this image.
	RemotePath string
}

// GalleryState is the in-memory image set of a report being edited. Images
// holds the current desired set; ToBeDeleted accumulates images the user
// removed, to be handed to the delete reconciler on the next update.
type GalleryState struct {
	Images      []GalleryImage
	ToBeDeleted []GalleryImage
}

// Add appends an image to the desired set.
func (g *GalleryState) Add(img GalleryImage) {
	g.Images = append(g.Images, img)
}

// Remove moves an image from the desired set to the deletion set. Unknown
// paths are ignored.
func (g *GalleryState) Remove(remotePath string) {
	for i, img := range g.Images {
		if img.RemotePath == remotePath {
			g.Images = append(g.Images[:i], g.Images[i+1:]...)
			g.ToBeDeleted = append(g.ToBeDeleted, img)
			return
		}
	}
}

// Clear resets both sets.
func (g *GalleryState) Clear() {
	g.Images = nil
	g.ToBeDeleted = nil
}
