package services

import (
	"context"
	"errors"
	"storefront_server/lib"
	"storefront_server/structs"
	"testing"
	"time"

	"github.com/google/uuid"
)

func validPaymentForm() *structs.PaymentForm {
	return &structs.PaymentForm{
		CardBrand:   " VISA ",
		Last4:       "4242",
		ExpMonth:    12,
		ExpYear:     time.Now().Year() + 2,
		BillingName: "Aiko Tanaka",
		Country:     "jp",
		PostalCode:  "150-0001",
		Region:      "Tokyo",
		Locality:    "Shibuya",
		Line1:       "1-2-3 Jingumae",
	}
}

func TestPaymentEditDefaults(t *testing.T) {
	env := newTestEnv(t)

	view, err := env.payments.Edit(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if view.Form.CardBrand != "visa" || view.Form.Country != "JP" {
		t.Errorf("unexpected defaults: %+v", view.Form)
	}
	if view.FromDraft || view.HasProfile {
		t.Error("fresh buyer has neither draft nor profile")
	}
}

func TestPaymentGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	if err := env.settings.SetPurchaseCompleted(ctx, true); err != nil {
		t.Fatalf("SetPurchaseCompleted: %v", err)
	}

	if _, err := env.payments.Edit(ctx, user); !errors.Is(err, ErrPurchaseClosed) {
		t.Errorf("Edit: expected ErrPurchaseClosed, got %v", err)
	}
	if err := env.payments.Proceed(ctx, user, validPaymentForm()); !errors.Is(err, ErrPurchaseClosed) {
		t.Errorf("Proceed: expected ErrPurchaseClosed, got %v", err)
	}
	if _, ok := env.sessions.records[sessionKey(user, paymentDraftSession)]; ok {
		t.Error("draft stored while purchase is closed")
	}
}

func TestPaymentProceedValidation(t *testing.T) {
	env := newTestEnv(t)
	form := validPaymentForm()
	form.Last4 = "42a"
	form.ExpMonth = 13
	form.ExpYear = 2001

	err := env.payments.Proceed(context.Background(), uuid.New(), form)
	ve, ok := lib.IsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}

	fields := map[string]bool{}
	for _, fe := range ve.Errors {
		fields[fe.Field] = true
	}
	for _, f := range []string{"last4", "exp_month", "exp_year"} {
		if !fields[f] {
			t.Errorf("missing error for %s in %+v", f, ve.Errors)
		}
	}
}

func TestPaymentDraftToConfirm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	if err := env.payments.Proceed(ctx, user, validPaymentForm()); err != nil {
		t.Fatalf("Proceed: %v", err)
	}

	draft, err := env.payments.Review(ctx, user)
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if draft.CardBrand != "visa" || draft.Country != "JP" {
		t.Errorf("draft not normalized: %+v", draft)
	}

	view, err := env.payments.Edit(ctx, user)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !view.FromDraft || view.Form.Last4 != "4242" {
		t.Errorf("edit should show the draft, got %+v", view)
	}

	profile, err := env.payments.Confirm(ctx, user, "aiko@example.com")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if profile.UserID != user || profile.Last4 != "4242" {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if len(env.notifier.sent) != 1 || env.notifier.sent[0] != "aiko@example.com" {
		t.Errorf("notification not sent: %v", env.notifier.sent)
	}

	if _, err := env.payments.Review(ctx, user); !errors.Is(err, ErrNoDraft) {
		t.Errorf("draft should be gone after confirm, got %v", err)
	}
	if _, err := env.payments.Confirm(ctx, user, ""); !errors.Is(err, ErrNoDraft) {
		t.Errorf("second confirm: expected ErrNoDraft, got %v", err)
	}
}

func TestPaymentEditPrefillsProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := uuid.New()

	if err := env.payments.Proceed(ctx, user, validPaymentForm()); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	first, err := env.payments.Confirm(ctx, user, "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	view, err := env.payments.Edit(ctx, user)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if view.FromDraft || !view.HasProfile || view.Form.Locality != "Shibuya" {
		t.Errorf("expected prefill from profile, got %+v", view)
	}

	form := validPaymentForm()
	form.Last4 = "1881"
	if err := env.payments.Proceed(ctx, user, form); err != nil {
		t.Fatalf("Proceed: %v", err)
	}
	second, err := env.payments.Confirm(ctx, user, "")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if len(env.repo.profiles) != 1 {
		t.Errorf("expected a single profile per buyer, got %d", len(env.repo.profiles))
	}
	if second.ID != first.ID || env.repo.profiles[user].Last4 != "1881" {
		t.Error("second confirm should replace the existing profile")
	}
}
