package services

import (
	"context"
	"errors"
	"fmt"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const paymentDraftSession = "payment.draft"

var (
	ErrPurchaseClosed = errors.New("purchase already completed")
	ErrNoDraft        = errors.New("no payment input to confirm")
)

// PaymentNotifier is told about saved profiles. Failures never undo the save.
type PaymentNotifier interface {
	SendPaymentProfileSaved(ctx context.Context, to string, profile *tables.PaymentProfile) error
}

type PaymentService struct {
	logger   *gecho.Logger
	repo     database.Repository
	settings *SettingService
	sessions SessionStore
	notifier PaymentNotifier
}

func NewPaymentService(logger *gecho.Logger, repo database.Repository, settings *SettingService, sessions SessionStore, notifier PaymentNotifier) *PaymentService {
	return &PaymentService{
		logger:   logger,
		repo:     repo,
		settings: settings,
		sessions: sessions,
		notifier: notifier,
	}
}

// DefaultPaymentForm is what a buyer without a draft or profile starts from.
func DefaultPaymentForm() structs.PaymentForm {
	return structs.PaymentForm{CardBrand: "visa", Country: "JP"}
}

func formFromProfile(p *tables.PaymentProfile) structs.PaymentForm {
	return structs.PaymentForm{
		CardBrand:   p.CardBrand,
		Last4:       p.Last4,
		ExpMonth:    p.ExpMonth,
		ExpYear:     p.ExpYear,
		BillingName: p.BillingName,
		Country:     p.Country,
		PostalCode:  p.PostalCode,
		Region:      p.Region,
		Locality:    p.Locality,
		Line1:       p.Line1,
		Line2:       p.Line2,
	}
}

func normalizePaymentForm(form *structs.PaymentForm) {
	form.CardBrand = strings.ToLower(strings.TrimSpace(form.CardBrand))
	form.Last4 = strings.TrimSpace(form.Last4)
	form.Country = strings.ToUpper(strings.TrimSpace(form.Country))
	form.BillingName = strings.TrimSpace(form.BillingName)
	form.PostalCode = strings.TrimSpace(form.PostalCode)
	form.Region = strings.TrimSpace(form.Region)
	form.Locality = strings.TrimSpace(form.Locality)
	form.Line1 = strings.TrimSpace(form.Line1)
	form.Line2 = strings.TrimSpace(form.Line2)
}

func (ps *PaymentService) gate(ctx context.Context) error {
	completed, err := ps.settings.PurchaseCompleted(ctx, false)
	if err != nil {
		return err
	}
	if completed {
		return ErrPurchaseClosed
	}
	return nil
}

// Edit returns the form to show: the pending draft, else the saved profile, else defaults.
func (ps *PaymentService) Edit(ctx context.Context, userID uuid.UUID) (*structs.PaymentEditView, error) {
	if err := ps.gate(ctx); err != nil {
		return nil, err
	}

	profile, err := ps.repo.FindPaymentProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment profile: %w", err)
	}

	view := &structs.PaymentEditView{Form: DefaultPaymentForm(), HasProfile: profile != nil}

	var draft structs.PaymentForm
	ok, err := ps.sessions.Load(ctx, userID, paymentDraftSession, &draft)
	if err != nil {
		return nil, err
	}

	switch {
	case ok:
		view.Form = draft
		view.FromDraft = true
	case profile != nil:
		view.Form = formFromProfile(profile)
	}
	return view, nil
}

// Proceed validates the input and keeps it as the buyer's draft until confirmed.
func (ps *PaymentService) Proceed(ctx context.Context, userID uuid.UUID, form *structs.PaymentForm) error {
	if err := ps.gate(ctx); err != nil {
		return err
	}

	normalizePaymentForm(form)
	if err := lib.Validate(form); err != nil {
		return err
	}

	if err := ps.sessions.Save(ctx, userID, paymentDraftSession, form); err != nil {
		return fmt.Errorf("failed to keep payment input: %w", err)
	}
	return nil
}

// Review returns the pending draft for the confirmation step.
func (ps *PaymentService) Review(ctx context.Context, userID uuid.UUID) (*structs.PaymentForm, error) {
	var draft structs.PaymentForm
	ok, err := ps.sessions.Load(ctx, userID, paymentDraftSession, &draft)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoDraft
	}
	return &draft, nil
}

// Confirm re-validates the draft, stores it as the buyer's single profile and drops the draft.
func (ps *PaymentService) Confirm(ctx context.Context, userID uuid.UUID, email string) (*tables.PaymentProfile, error) {
	draft, err := ps.Review(ctx, userID)
	if err != nil {
		return nil, err
	}

	normalizePaymentForm(draft)
	if err := lib.Validate(draft); err != nil {
		return nil, err
	}

	profile := &tables.PaymentProfile{
		ID:          uuid.New(),
		UserID:      userID,
		CardBrand:   draft.CardBrand,
		Last4:       draft.Last4,
		ExpMonth:    draft.ExpMonth,
		ExpYear:     draft.ExpYear,
		BillingName: draft.BillingName,
		Country:     draft.Country,
		PostalCode:  draft.PostalCode,
		Region:      draft.Region,
		Locality:    draft.Locality,
		Line1:       draft.Line1,
		Line2:       draft.Line2,
	}

	if err := ps.repo.UpsertPaymentProfile(ctx, profile); err != nil {
		ps.logger.Error("Failed to save payment profile", gecho.Field("user_id", userID), gecho.Field("error", err))
		return nil, err
	}

	if err := ps.sessions.Forget(ctx, userID, paymentDraftSession); err != nil {
		ps.logger.Warn("Failed to drop payment draft", gecho.Field("user_id", userID), gecho.Field("error", err))
	}

	if ps.notifier != nil && email != "" {
		if err := ps.notifier.SendPaymentProfileSaved(ctx, email, profile); err != nil {
			ps.logger.Warn("Failed to send payment profile email", gecho.Field("user_id", userID), gecho.Field("error", err))
		}
	}

	ps.logger.Info("Payment profile saved", gecho.Field("user_id", userID))
	return profile, nil
}
