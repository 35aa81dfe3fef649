package models

// Contact types accepted by the enquiry endpoint.
const (
	ContactTypeCustomer = "customer"
	ContactTypeSupplier = "supplier"
	ContactTypeBoth     = "both"
)

// Enquiry is a submitted enquiry record as returned by the list endpoint.
type Enquiry struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	Query       string `json:"query"`
	ContactType string `json:"contact_type"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// EnquiryPayload is the body of POST /enquiries.
type EnquiryPayload struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	Query             string `json:"query"`
	ContactType       string `json:"contact_type"`
	GrantPortalAccess bool   `json:"grant_portal_access,omitempty"`
}

// PortalGrant is the optional portal-access part of an enquiry response,
// carrying a human-readable message about the login link that was sent.
type PortalGrant struct {
	Message string `json:"message"`
}

// EnquiryReceipt is the response of a successful enquiry submission.
type EnquiryReceipt struct {
	Enquiry *Enquiry     `json:"data,omitempty"`
	Portal  *PortalGrant `json:"portal,omitempty"`
}

// Contact is the result of a phone lookup, used to auto-fill enquiry forms.
type Contact struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	ContactType string `json:"contact_type"`
	ContactCode string `json:"contact_code,omitempty"`
	HasAccount  bool   `json:"has_account,omitempty"`
}
