package services

import (
	"storefront_server/structs"
	"storefront_server/structs/tables"
)

// ResolvePortrait picks the portrait file for an artist, first match wins:
// the stored portrait_path, artists/{id}/portrait.jpg, the first image in artists/{id}/,
// then the shared artists/ folder indexed by display order. "" means no portrait.
func ResolvePortrait(disk PublicDisk, artist *tables.Artist) string {
	if artist.PortraitPath != nil && *artist.PortraitPath != "" && disk.Exists(*artist.PortraitPath) {
		return *artist.PortraitPath
	}

	dir := "artists/" + artist.ID.String()
	if p := dir + "/portrait.jpg"; disk.Exists(p) {
		return p
	}

	if files := disk.ImageFiles(dir); len(files) > 0 {
		return files[0]
	}

	shared := disk.ImageFiles("artists")
	if len(shared) == 0 {
		return ""
	}

	idx := 0
	if artist.DisplayOrder != nil {
		idx = max(0, *artist.DisplayOrder-1)
	}
	if idx < len(shared) {
		return shared[idx]
	}
	return shared[0]
}

// NewArtistCard flattens an artist for output, with the portrait resolved to a public URL.
func NewArtistCard(disk PublicDisk, artist *tables.Artist) structs.ArtistCard {
	card := structs.ArtistCard{
		ID:           artist.ID,
		Name:         artist.Name,
		Title:        artist.Title,
		DisplayOrder: artist.DisplayOrder,
		IsVisible:    artist.IsVisible,
	}
	if artist.Genre != nil {
		card.Genre = *artist.Genre
	}
	if artist.Bio != nil {
		card.Bio = *artist.Bio
	}
	if p := ResolvePortrait(disk, artist); p != "" {
		card.PortraitURL = disk.URL(p)
	}
	return card
}
