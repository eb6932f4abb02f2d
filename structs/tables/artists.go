package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	GenreCraftMaker    = "craft maker"
	GenreWineImporter  = "wine importer"
	GenreCoffeeRoaster = "coffee roaster"
)

// AllowedGenres lists the genres an artist may carry, in display order.
func AllowedGenres() []string {
	return []string{GenreCraftMaker, GenreWineImporter, GenreCoffeeRoaster}
}

// MaxVisibleArtists is how many artists the home page shows.
const MaxVisibleArtists = 3

type Artist struct {
	bun.BaseModel `bun:"table:artists,alias:a"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Title        string    `bun:"title,notnull" json:"title"`
	Genre        *string   `bun:"genre" json:"genre"`
	Bio          *string   `bun:"bio" json:"bio"`
	PortraitPath *string   `bun:"portrait_path" json:"portrait_path"`
	DisplayOrder *int      `bun:"display_order" json:"display_order"`
	IsVisible    bool      `bun:"is_visible,notnull" json:"is_visible"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
