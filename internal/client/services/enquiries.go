package services

import (
	"context"
	"errors"
	"time"

	"github.com/pavelgris/erpadmin/internal/client/api"
	"github.com/pavelgris/erpadmin/internal/client/models"
	"github.com/pavelgris/erpadmin/internal/client/notify"
	"github.com/pavelgris/erpadmin/internal/client/querycache"
	"github.com/pavelgris/erpadmin/internal/logging"
)

const (
	enquiriesEntity = "enquiries"

	// Quiet period before a typed phone number triggers a contact lookup.
	lookupQuiet = 600 * time.Millisecond
)

// Enquiries is the enquiry service: validated submission with optimistic
// listing and debounced contact lookup for form auto-fill.
type Enquiries struct {
	api      api.EnquiriesAPI
	store    *querycache.Store[models.Enquiry]
	notifier notify.Notifier
	log      logging.Logger
	lookup   *querycache.Debouncer
}

func NewEnquiries(client api.EnquiriesAPI, notifier notify.Notifier, log logging.Logger) *Enquiries {
	return &Enquiries{
		api:      client,
		store:    querycache.NewStore[models.Enquiry](),
		notifier: notifier,
		log:      log,
		lookup:   querycache.NewDebouncer(lookupQuiet),
	}
}

func (s *Enquiries) Fingerprint(q models.ListQuery) querycache.Fingerprint {
	return querycache.ForQuery(enquiriesEntity, q)
}

func (s *Enquiries) List(ctx context.Context, q models.ListQuery) (querycache.List[models.Enquiry], error) {
	fp := s.Fingerprint(q)
	if cached, ok := s.store.Get(fp); ok {
		return cached, nil
	}

	fctx := s.store.BeginFetch(ctx, fp)
	resp, err := s.api.ListEnquiries(fctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return querycache.List[models.Enquiry]{}, err
		}
		s.notifier.Error(api.Message(err))
		return querycache.List[models.Enquiry]{}, err
	}
	list := querycache.List[models.Enquiry]{Items: resp.Data, LastPage: resp.Meta.LastPage, Total: resp.Meta.Total}
	s.store.CompleteFetch(fctx, fp, list)
	return list, nil
}

// Submit validates the enquiry client-side and sends it, with a speculative
// placeholder entry in the cache slot fp. A portal-access grant in the
// response is surfaced as an extra notification.
func (s *Enquiries) Submit(ctx context.Context, fp querycache.Fingerprint, in models.EnquiryPayload) error {
	if err := ValidateEnquiry(in); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	speculate := func(l querycache.List[models.Enquiry]) querycache.List[models.Enquiry] {
		placeholder := models.Enquiry{
			ID:          s.store.PlaceholderID(),
			Name:        in.Name,
			Phone:       in.Phone,
			Email:       in.Email,
			CompanyName: in.CompanyName,
			Query:       in.Query,
			ContactType: in.ContactType,
		}
		l.Items = append([]models.Enquiry{placeholder}, l.Items...)
		return l
	}

	var receipt *models.EnquiryReceipt
	err := runOptimistic(ctx, s.store, fp, speculate, func(ctx context.Context) error {
		var err error
		receipt, err = s.api.CreateEnquiry(ctx, in)
		return err
	})
	if err != nil {
		s.notifier.Error(api.Message(err))
		return err
	}

	s.notifier.Success("Enquiry submitted successfully!")
	if receipt != nil && receipt.Portal != nil && receipt.Portal.Message != "" {
		s.notifier.Info(receipt.Portal.Message)
	}
	return nil
}

// Lookup fetches the contact for a phone number. A nil contact with nil
// error means the number is unknown.
func (s *Enquiries) Lookup(ctx context.Context, phone string) (*models.Contact, error) {
	return s.api.LookupContact(ctx, phone)
}

// ScheduleLookup debounces contact lookup while a phone number is being
// typed. Short numbers cancel any pending lookup. Lookup failures are
// logged, never surfaced: auto-fill is best-effort.
func (s *Enquiries) ScheduleLookup(ctx context.Context, phone string, apply func(models.Contact)) {
	if len(phone) < 10 {
		s.lookup.Stop()
		return
	}
	s.lookup.Trigger(func() {
		contact, err := s.api.LookupContact(ctx, phone)
		if err != nil {
			s.log.Warn(ctx, "contact lookup failed", "error", err)
			return
		}
		if contact == nil {
			return
		}
		apply(*contact)
		s.notifier.Success("Contact found! Details auto-filled.")
	})
}
