package purchase

// Shipping carries the recipient name and address for physical delivery.
type Shipping struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	AdminArea1   string
	AdminArea2   string
	PostalCode   string
	CountryCode  string
}

func (s *Shipping) payload() *ShippingPayload {
	if s == nil {
		return nil
	}
	p := &ShippingPayload{
		Address: AddressPayload{
			AddressLine1: s.AddressLine1,
			AddressLine2: s.AddressLine2,
			AdminArea1:   s.AdminArea1,
			AdminArea2:   s.AdminArea2,
			PostalCode:   s.PostalCode,
			CountryCode:  s.CountryCode,
		},
	}
	p.Name.FullName = s.FullName
	return p
}

// Payee identifies the merchant account receiving the funds.
type Payee struct {
	EmailAddress string
	MerchantID   string
}

func (p *Payee) payload() *PayeePayload {
	if p == nil {
		return nil
	}
	return &PayeePayload{EmailAddress: p.EmailAddress, MerchantID: p.MerchantID}
}

// Unit aggregates everything the provider needs to charge one distinguishable
// set of goods: the amount, its itemisation and the order metadata. A unit is
// built once per checkout attempt, sanitized exactly once on serialization
// and then discarded.
type Unit struct {
	ReferenceID    string
	Amount         Amount
	Items          []Item
	Shipping       *Shipping
	Payee          *Payee
	Description    string
	CustomID       string
	InvoiceID      string
	SoftDescriptor string
}

// Payload produces the outbound body with the default sanitizer. Callers that
// need the resolution for logging or metrics use Sanitizer.Sanitize directly.
func (u Unit) Payload() UnitPayload {
	payload, _ := Sanitizer{}.Sanitize(u)
	return payload
}
