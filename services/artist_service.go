package services

import (
	"context"
	"fmt"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/storage"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const artistEditSession = "admin.artist_edit"

type ArtistService struct {
	logger        *gecho.Logger
	repo          database.Repository
	sessions      SessionStore
	disk          Disk
	maxUploadSize int64
}

func NewArtistService(logger *gecho.Logger, cfg *structs.Config, repo database.Repository, sessions SessionStore, disk Disk) *ArtistService {
	return &ArtistService{
		logger:        logger,
		repo:          repo,
		sessions:      sessions,
		disk:          disk,
		maxUploadSize: cfg.Storage.MaxUploadSize,
	}
}

// List returns every artist in display order with the editor's in-progress edit.
func (as *ArtistService) List(ctx context.Context, editor uuid.UUID) (*structs.AdminArtistsView, error) {
	artists, err := as.repo.ListArtists(ctx, false, 0)
	if err != nil {
		as.logger.Error("Failed to fetch artists", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch artists: %w", err)
	}

	cards := make([]structs.ArtistCard, 0, len(artists))
	for i := range artists {
		cards = append(cards, NewArtistCard(as.disk, &artists[i]))
	}

	state, err := as.EditState(ctx, editor)
	if err != nil {
		return nil, err
	}

	return &structs.AdminArtistsView{Artists: cards, Editing: state}, nil
}

// Show returns a visible artist for the public detail page.
func (as *ArtistService) Show(ctx context.Context, id uuid.UUID) (*structs.ArtistCard, error) {
	artist, err := as.repo.FindArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	if !artist.IsVisible {
		return nil, lib.ErrNotFound
	}

	card := NewArtistCard(as.disk, artist)
	return &card, nil
}

// EditState returns the editor's in-progress edit, or the blank default.
func (as *ArtistService) EditState(ctx context.Context, editor uuid.UUID) (structs.ArtistEditState, error) {
	state := structs.NewArtistEditState()
	if _, err := as.sessions.Load(ctx, editor, artistEditSession, &state); err != nil {
		return structs.NewArtistEditState(), fmt.Errorf("failed to load artist edit state: %w", err)
	}
	return state, nil
}

func (as *ArtistService) saveEditState(ctx context.Context, editor uuid.UUID, state structs.ArtistEditState) error {
	if err := as.sessions.Save(ctx, editor, artistEditSession, state); err != nil {
		return fmt.Errorf("failed to save artist edit state: %w", err)
	}
	return nil
}

func editStateFor(artist *tables.Artist) structs.ArtistEditState {
	id := artist.ID
	state := structs.ArtistEditState{
		EditingID:    &id,
		Name:         artist.Name,
		Title:        artist.Title,
		DisplayOrder: artist.DisplayOrder,
		IsVisible:    artist.IsVisible,
	}
	if artist.Genre != nil {
		state.Genre = *artist.Genre
	}
	if artist.Bio != nil {
		state.Bio = *artist.Bio
	}
	return state
}

// NewEdit resets the editor to a blank new artist.
func (as *ArtistService) NewEdit(ctx context.Context, editor uuid.UUID) (structs.ArtistEditState, error) {
	state := structs.NewArtistEditState()
	return state, as.saveEditState(ctx, editor, state)
}

// StartEdit loads an artist into the editor's edit state.
func (as *ArtistService) StartEdit(ctx context.Context, editor, id uuid.UUID) (structs.ArtistEditState, error) {
	artist, err := as.repo.FindArtist(ctx, id)
	if err != nil {
		return structs.ArtistEditState{}, err
	}

	state := editStateFor(artist)
	return state, as.saveEditState(ctx, editor, state)
}

// Save creates the artist when id is nil and updates it otherwise. A portrait may come along.
func (as *ArtistService) Save(ctx context.Context, editor uuid.UUID, id *uuid.UUID, form *structs.ArtistForm, portrait *storage.Upload) (*tables.Artist, error) {
	startTime := time.Now()

	form.Name = strings.TrimSpace(form.Name)
	form.Title = strings.TrimSpace(form.Title)
	form.Genre = strings.TrimSpace(form.Genre)
	// a blank order field decodes as 0
	if form.DisplayOrder != nil && *form.DisplayOrder == 0 {
		form.DisplayOrder = nil
	}
	if err := lib.Validate(form); err != nil {
		return nil, err
	}
	if portrait != nil {
		if err := checkUploads("portrait", []storage.Upload{*portrait}, as.maxUploadSize); err != nil {
			return nil, err
		}
	}

	artistID := uuid.New()
	if id != nil {
		artistID = *id
	}

	// the file goes first so the row and its portrait path are written together
	var portraitPath string
	if portrait != nil {
		path, err := as.disk.StoreImage("artists/"+artistID.String(), *portrait)
		if err != nil {
			return nil, fmt.Errorf("failed to store portrait: %w", err)
		}
		portraitPath = path
	}

	var artist *tables.Artist
	err := as.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		artist = &tables.Artist{ID: artistID}
		if id != nil {
			found, err := tx.FindArtist(ctx, artistID)
			if err != nil {
				return err
			}
			artist = found
		}

		artist.Name = form.Name
		artist.Title = form.Title
		artist.Genre = optional(form.Genre)
		artist.Bio = optional(lib.SanitizeText(form.Bio))
		artist.DisplayOrder = form.DisplayOrder
		artist.IsVisible = form.Visible()
		if portraitPath != "" {
			artist.PortraitPath = &portraitPath
		}

		if id != nil {
			return tx.UpdateArtist(ctx, artist)
		}
		return tx.CreateArtist(ctx, artist)
	})
	if err != nil {
		if portraitPath != "" {
			_ = as.disk.Delete(portraitPath)
		}
		if lib.IsNotFound(err) {
			return nil, err
		}
		as.logger.Error("Failed to save artist", gecho.Field("artist_id", artistID), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to save artist: %w", err)
	}

	if err := as.saveEditState(ctx, editor, editStateFor(artist)); err != nil {
		return nil, err
	}

	as.logger.Info("Artist saved",
		gecho.Field("artist_id", artist.ID),
		gecho.Field("created", id == nil),
		gecho.Field("duration", time.Since(startTime)))

	return artist, nil
}

// UploadPortrait replaces the stored portrait of an artist.
func (as *ArtistService) UploadPortrait(ctx context.Context, id uuid.UUID, portrait storage.Upload) (*tables.Artist, error) {
	if err := checkUploads("portrait", []storage.Upload{portrait}, as.maxUploadSize); err != nil {
		return nil, err
	}

	artist, err := as.repo.FindArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := as.storePortrait(ctx, artist, portrait); err != nil {
		return nil, err
	}
	return artist, nil
}

func (as *ArtistService) storePortrait(ctx context.Context, artist *tables.Artist, portrait storage.Upload) error {
	path, err := as.disk.StoreImage("artists/"+artist.ID.String(), portrait)
	if err != nil {
		return fmt.Errorf("failed to store portrait: %w", err)
	}

	artist.PortraitPath = &path
	if err := as.repo.UpdateArtist(ctx, artist); err != nil {
		_ = as.disk.Delete(path)
		return fmt.Errorf("failed to save portrait: %w", err)
	}

	as.logger.Info("Artist portrait stored", gecho.Field("artist_id", artist.ID), gecho.Field("path", path))
	return nil
}

// ToggleVisible flips whether the artist is shown publicly.
func (as *ArtistService) ToggleVisible(ctx context.Context, id uuid.UUID) (*tables.Artist, error) {
	artist, err := as.repo.FindArtist(ctx, id)
	if err != nil {
		return nil, err
	}

	artist.IsVisible = !artist.IsVisible
	if err := as.repo.UpdateArtist(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

// DeleteArtist removes the portrait file and the row. An editor working on this artist is reset.
func (as *ArtistService) DeleteArtist(ctx context.Context, editor, id uuid.UUID) error {
	artist, err := as.repo.FindArtist(ctx, id)
	if err != nil {
		return err
	}

	if artist.PortraitPath != nil && *artist.PortraitPath != "" && as.disk.Exists(*artist.PortraitPath) {
		if err := as.disk.Delete(*artist.PortraitPath); err != nil {
			as.logger.Warn("Failed to delete portrait file",
				gecho.Field("path", *artist.PortraitPath),
				gecho.Field("error", err))
		}
	}

	if err := as.repo.DeleteArtist(ctx, artist.ID); err != nil {
		return err
	}

	state, err := as.EditState(ctx, editor)
	if err == nil && state.EditingID != nil && *state.EditingID == artist.ID {
		if err := as.saveEditState(ctx, editor, structs.NewArtistEditState()); err != nil {
			return err
		}
	}

	as.logger.Info("Artist deleted", gecho.Field("artist_id", artist.ID))
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
