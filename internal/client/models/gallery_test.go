package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGalleryState_AddRemove(t *testing.T) {
	g := &GalleryState{}

	g.Add(GalleryImage{LocalURI: "/tmp/a.jpg", RemotePath: "images/u1/a-1.jpg"})
	g.Add(GalleryImage{LocalURI: "/tmp/b.jpg", RemotePath: "images/u1/b-2.jpg"})
	assert.Len(t, g.Images, 2)

	g.Remove("images/u1/a-1.jpg")
	assert.Len(t, g.Images, 1)
	assert.Equal(t, "images/u1/b-2.jpg", g.Images[0].RemotePath)
	assert.Len(t, g.ToBeDeleted, 1)
	assert.Equal(t, "images/u1/a-1.jpg", g.ToBeDeleted[0].RemotePath)
}

func TestGalleryState_RemoveUnknownPathIgnored(t *testing.T) {
	g := &GalleryState{}
	g.Add(GalleryImage{RemotePath: "images/u1/a-1.jpg"})

	g.Remove("images/u1/missing.jpg")
	assert.Len(t, g.Images, 1)
	assert.Empty(t, g.ToBeDeleted)
}

func TestReport_ImagePaths(t *testing.T) {
	r := &Report{Images: []ImageRef{
		{Path: "images/u1/a-1.jpg", Confirmed: true},
		{Path: "images/u1/b-2.jpg"},
	}}

	assert.Equal(t, []string{"images/u1/a-1.jpg", "images/u1/b-2.jpg"}, r.ImagePaths())
}
