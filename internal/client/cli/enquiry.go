package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/pavelgris/erpadmin/internal/client/models"
)

// ListEnquiries prints the current page of enquiries.
func (a *App) ListEnquiries(ctx context.Context) error {
	return a.renderEnquiries(ctx, a.enquiriesQuery.Query())
}

func (a *App) renderEnquiries(ctx context.Context, q models.ListQuery) error {
	list, err := a.enquiries.List(ctx, q)
	if err != nil {
		return err
	}

	for _, e := range list.Items {
		printlnFn(fmt.Sprintf("%6d  %-25s %-16s %-10s %s",
			e.ID, e.Name, e.Phone, e.ContactType, e.Query))
	}
	printlnFn(fmt.Sprintf("page %d of %d", q.PageIndex+1, list.LastPage))
	return nil
}

// SearchEnquiries prompts for free-text search over enquiries. Debounced
// like the user search, so the listing prints after the quiet period.
func (a *App) SearchEnquiries(ctx context.Context) error {
	text, err := getSimpleText(a.reader, "Search (blank to clear)", os.Stdout)
	if err != nil {
		return err
	}
	a.enquiriesQuery.SetSearch(text)
	return nil
}

// PageEnquiries prompts for a page number and jumps to it.
func (a *App) PageEnquiries(ctx context.Context) error {
	raw, err := getSimpleText(a.reader, "Page number", os.Stdout)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		printlnFn("Invalid page:", raw)
		return nil
	}
	a.enquiriesQuery.SetPage(n - 1)
	return nil
}

// AddEnquiry prompts for the enquiry form and submits it. When the entered
// phone reaches lookup length, a contact lookup runs and the matched details
// pre-fill the remaining fields.
func (a *App) AddEnquiry(ctx context.Context) error {
	var in models.EnquiryPayload

	phone, err := getSimpleText(a.reader, "Phone (e.g. +12345678901)", os.Stdout)
	if err != nil {
		return err
	}
	in.Phone = phone

	if contact, err := a.enquiries.Lookup(ctx, phone); err == nil && contact != nil {
		printlnFn("Contact found! Details auto-filled.")
		in.Name = contact.Name
		in.Email = contact.Email
		in.ContactType = contact.ContactType
	}

	name, err := getSimpleText(a.reader, labelWithDefault("Name", in.Name), os.Stdout)
	if err != nil {
		return err
	}
	in.Name = orDefault(name, in.Name)

	email, err := getSimpleText(a.reader, labelWithDefault("Email (optional)", in.Email), os.Stdout)
	if err != nil {
		return err
	}
	in.Email = orDefault(email, in.Email)

	in.CompanyName, err = getSimpleText(a.reader, "Company (optional)", os.Stdout)
	if err != nil {
		return err
	}

	contactType, err := getSimpleText(a.reader,
		labelWithDefault("Contact type (customer/supplier/both)", in.ContactType), os.Stdout)
	if err != nil {
		return err
	}
	in.ContactType = orDefault(contactType, in.ContactType)

	in.Query, err = getSimpleText(a.reader, "Query (at least 10 characters)", os.Stdout)
	if err != nil {
		return err
	}

	in.GrantPortalAccess, err = GetBool(a.reader, "Grant portal access", false, os.Stdout)
	if err != nil {
		return err
	}

	fp := a.enquiries.Fingerprint(a.enquiriesQuery.Query())
	return a.enquiries.Submit(ctx, fp, in)
}

// LookupContact looks up a contact by phone and prints the match.
func (a *App) LookupContact(ctx context.Context) error {
	phone, err := getSimpleText(a.reader, "Phone", os.Stdout)
	if err != nil {
		return err
	}

	contact, err := a.enquiries.Lookup(ctx, phone)
	if err != nil || contact == nil {
		printlnFn("No contact found.")
		return err
	}

	printlnFn("Name:        ", contact.Name)
	printlnFn("Email:       ", contact.Email)
	printlnFn("Type:        ", contact.ContactType)
	printlnFn("Code:        ", contact.ContactCode)
	printlnFn("Has account: ", contact.HasAccount)
	return nil
}
