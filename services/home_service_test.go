package services

import (
	"context"
	"fmt"
	"storefront_server/structs/tables"
	"testing"

	"github.com/google/uuid"
)

func TestResolveGalleryDropsMissingFiles(t *testing.T) {
	env := newTestEnv(t)
	product := &tables.Product{ID: uuid.New(), Title: "Spring Blend"}
	env.writeFile(t, "products/kept.png")

	rows := []tables.ProductImage{
		{ID: uuid.New(), Path: "products/gone.png", Position: 1},
		{ID: uuid.New(), Path: "products/kept.png", Position: 2, AltText: ""},
	}

	images := ResolveGallery(env.disk, product, rows)
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].Path != "products/kept.png" || images[0].ID == nil {
		t.Errorf("unexpected image: %+v", images[0])
	}
	if images[0].AltText != "Spring Blend" {
		t.Errorf("empty alt should fall back to title, got %q", images[0].AltText)
	}
	if images[0].URL != "/storage/products/kept.png" {
		t.Errorf("url = %q", images[0].URL)
	}
}

func TestResolveGalleryCapsRowsBeforeDroppingMissing(t *testing.T) {
	env := newTestEnv(t)
	product := &tables.Product{ID: uuid.New(), Title: "Spring Blend"}

	rows := make([]tables.ProductImage, tables.MaxProductImages+1)
	for i := range rows {
		rows[i] = tables.ProductImage{ID: uuid.New(), Path: fmt.Sprintf("products/%d.png", i+1), Position: i + 1}
		if i != 2 {
			env.writeFile(t, rows[i].Path)
		}
	}

	images := ResolveGallery(env.disk, product, rows)
	if len(images) != tables.MaxProductImages-1 {
		t.Fatalf("expected %d images, got %d", tables.MaxProductImages-1, len(images))
	}
	for _, img := range images {
		if img.Position > tables.MaxProductImages {
			t.Errorf("row past the cap shown: %s", img.Path)
		}
	}
}

func TestResolveGalleryFallback(t *testing.T) {
	product := &tables.Product{ID: uuid.New(), Title: "Spring Blend"}

	t.Run("product folder first", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "products/"+product.ID.String()+"/b.jpg")
		env.writeFile(t, "products/"+product.ID.String()+"/a.jpg")
		env.writeFile(t, "products/shared.jpg")

		images := ResolveGallery(env.disk, product, nil)
		if len(images) != 2 {
			t.Fatalf("expected 2 images, got %d", len(images))
		}
		if images[0].Path != "products/"+product.ID.String()+"/a.jpg" || images[0].Position != 1 {
			t.Errorf("unexpected first image: %+v", images[0])
		}
		if images[1].Position != 2 || images[1].ID != nil || images[1].AltText != product.Title {
			t.Errorf("unexpected second image: %+v", images[1])
		}
	})

	t.Run("shared folder", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeFile(t, "products/shared.jpg")
		env.writeFile(t, "products/notes.txt")

		images := ResolveGallery(env.disk, product, nil)
		if len(images) != 1 || images[0].Path != "products/shared.jpg" {
			t.Errorf("unexpected images: %+v", images)
		}
	})

	t.Run("capped at ten", func(t *testing.T) {
		env := newTestEnv(t)
		for i := 0; i < 12; i++ {
			env.writeFile(t, "products/"+product.ID.String()+"/"+string(rune('a'+i))+".png")
		}
		if images := ResolveGallery(env.disk, product, nil); len(images) != tables.MaxProductImages {
			t.Errorf("expected %d images, got %d", tables.MaxProductImages, len(images))
		}
	})

	t.Run("nothing anywhere", func(t *testing.T) {
		env := newTestEnv(t)
		if images := ResolveGallery(env.disk, product, nil); len(images) != 0 {
			t.Errorf("expected no images, got %d", len(images))
		}
	})
}

func TestHomeEmptyState(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.home.Home(context.Background())
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if view.Product != nil || len(view.Images) != 0 || len(view.Artists) != 0 {
		t.Errorf("expected empty view, got %+v", view)
	}
	if view.SoldOut || view.CanPurchase {
		t.Error("nothing can be bought without a product")
	}
}

func TestHomeShowsCurrentProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	editor := uuid.New()

	product := createProductWithImages(t, env, editor, 2)
	if _, err := env.products.SetCurrent(ctx, product.ID); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}

	for i, name := range []string{"Aiko", "Ren", "Mio", "Sora"} {
		form := validArtistForm(name)
		form.DisplayOrder = intPtr(min(i+1, 3))
		if _, err := env.artists.Save(ctx, editor, nil, form, nil); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	hidden := false
	form := validArtistForm("Hidden")
	form.IsVisible = &hidden
	if _, err := env.artists.Save(ctx, editor, nil, form, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}

	view, err := env.home.Home(ctx)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if view.Product == nil || view.Product.ID != product.ID {
		t.Fatal("current product missing")
	}
	if len(view.Images) != 2 {
		t.Errorf("expected 2 images, got %d", len(view.Images))
	}
	if len(view.Artists) != tables.MaxVisibleArtists {
		t.Errorf("expected %d artists, got %d", tables.MaxVisibleArtists, len(view.Artists))
	}
	for _, a := range view.Artists {
		if a.Name == "Hidden" {
			t.Error("hidden artist shown")
		}
	}
	if !view.CanPurchase || view.SoldOut {
		t.Error("expected the product to be purchasable")
	}

	if err := env.settings.SetPurchaseCompleted(ctx, true); err != nil {
		t.Fatalf("SetPurchaseCompleted: %v", err)
	}
	view, err = env.home.Home(ctx)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if !view.SoldOut || view.CanPurchase {
		t.Error("expected sold out state")
	}
}

func TestHomeMissingCurrentProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.settings.SetCurrentProductID(ctx, uuid.New()); err != nil {
		t.Fatalf("SetCurrentProductID: %v", err)
	}

	view, err := env.home.Home(ctx)
	if err != nil {
		t.Fatalf("Home: %v", err)
	}
	if view.Product != nil || view.CanPurchase {
		t.Errorf("expected empty product state, got %+v", view)
	}
	if view.Images == nil {
		t.Error("images should be an empty list, not nil")
	}
}
