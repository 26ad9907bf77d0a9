// Package schema converts between the UI form shape of a charter booking
// (camelCase keys, nested address and file objects) and the flat snake_case
// storage schema, and validates storage records before they are persisted.
package schema

import (
	"time"

	"github.com/AndrewCorlett/yacht-charter-dashboard-sub003/internal/domain"
)

// Mapper performs the form <-> storage transforms. It is stateless apart
// from the injected clock and drop hook, so one Mapper is safe to share.
type Mapper struct {
	now    func() time.Time
	onDrop func(field string)
}

type Option func(*Mapper)

// WithClock replaces the wall clock used for document timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Mapper) { m.now = now }
}

// WithDropHook observes form/status keys silently discarded by the
// allow-list. Intended for tests and migration debugging; mapping behavior
// is unchanged.
func WithDropHook(fn func(field string)) Option {
	return func(m *Mapper) { m.onDrop = fn }
}

func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m
}

// ToStorage flattens form and status input into a storage-shaped record.
// Only dictionary-known keys survive. existing carries the previously
// persisted record, if any; document timestamps already present there are
// carried through and never overwritten (write-once), new ones are stamped
// with the current time when the matching flag is set. booking_status and
// payment_status are derived from the transformed record, never taken from
// input.
func (m *Mapper) ToStorage(
	form map[string]any,
	status map[string]any,
	docs map[string]domain.DocumentState,
	existing map[string]any,
) map[string]any {
	out := make(map[string]any)

	for k, v := range form {
		switch k {
		case "crewExperienceFile":
			m.flattenFile(out, v)
		case "address":
			m.flattenAddress(out, v)
		default:
			col, ok := formFields[k]
			if !ok {
				m.dropped(k)
				continue
			}
			out[col] = v
		}
	}

	for k, v := range status {
		col, ok := statusFields[k]
		if !ok {
			m.dropped(k)
			continue
		}
		out[col] = v
	}

	m.stampDocuments(out, docs, existing)

	out["booking_status"] = string(deriveBookingStatus(out))
	out["payment_status"] = string(derivePaymentStatus(out))

	return out
}

func (m *Mapper) flattenFile(out map[string]any, v any) {
	file, ok := v.(map[string]any)
	if !ok || file == nil {
		return
	}
	if name, ok := file["name"]; ok {
		out[fieldFileName] = name
	}
	if url, ok := file["url"]; ok {
		out[fieldFileURL] = url
	}
	if size, ok := file["size"]; ok {
		out[fieldFileSize] = size
	}
}

func (m *Mapper) flattenAddress(out map[string]any, v any) {
	addr, ok := v.(map[string]any)
	if !ok || addr == nil {
		return
	}
	if street, ok := addr["street"]; ok {
		out[fieldStreet] = street
	}
	if city, ok := addr["city"]; ok {
		out[fieldCity] = city
	}
	if postcode, ok := addr["postcode"]; ok {
		out[fieldPostcode] = postcode
	}
	if country, ok := addr["country"]; ok && !isBlank(country) {
		out[fieldCountry] = country
	} else {
		out[fieldCountry] = domain.DefaultCountry
	}
}

func (m *Mapper) stampDocuments(out map[string]any, docs map[string]domain.DocumentState, existing map[string]any) {
	stamp := m.now().UTC().Format(time.RFC3339)

	for _, docType := range domain.DocumentTypes {
		fields := docFields[docType]
		state := docs[docType]

		m.stampOne(out, existing, fields.Generated, state.Generated, stamp)
		m.stampOne(out, existing, fields.Downloaded, state.Downloaded, stamp)
		m.stampOne(out, existing, fields.Updated, state.Updated, stamp)
	}
}

func (m *Mapper) stampOne(out, existing map[string]any, field string, flagged bool, stamp string) {
	if prev, ok := existing[field]; ok && prev != nil {
		out[field] = prev
		return
	}
	if flagged {
		out[field] = stamp
	}
}

func (m *Mapper) dropped(field string) {
	if m.onDrop != nil {
		m.onDrop(field)
	}
}

// FromStorage is the inverse transform. Dictionary-known columns map back to
// camelCase; status flags land in the Status bag, everything else in Form.
// Date-like fields are normalized to YYYY-MM-DD strings, the nested file and
// address objects are rebuilt when their components are present, and all six
// document types are always reported, absent timestamps reading as false.
func (m *Mapper) FromStorage(storage map[string]any) domain.BookingView {
	view := domain.BookingView{
		Form:      make(map[string]any),
		Status:    make(map[string]any),
		Documents: make(map[string]domain.DocumentState, len(domain.DocumentTypes)),
	}

	consumed := docTimestampColumns()

	for col, v := range storage {
		if consumed[col] {
			continue
		}

		if name, ok := statusFieldsReverse[col]; ok {
			view.Status[name] = v
			continue
		}

		if name, ok := formFieldsReverse[col]; ok {
			if containsDate(name) {
				view.Form[name] = formatDateValue(v)
			} else {
				view.Form[name] = v
			}
			continue
		}
	}

	m.rebuildFile(view.Form, storage)
	m.rebuildAddress(view.Form, storage)

	for _, docType := range domain.DocumentTypes {
		fields := docFields[docType]
		view.Documents[docType] = domain.DocumentState{
			Generated:  hasValue(storage, fields.Generated),
			Downloaded: hasValue(storage, fields.Downloaded),
			Updated:    hasValue(storage, fields.Updated),
		}
	}

	return view
}

func (m *Mapper) rebuildFile(form map[string]any, storage map[string]any) {
	name, ok := storage[fieldFileName]
	if !ok || isBlank(name) {
		return
	}

	file := map[string]any{"name": name}
	if url, ok := storage[fieldFileURL]; ok {
		file["url"] = url
	}
	if size, ok := storage[fieldFileSize]; ok {
		file["size"] = size
	}
	form["crewExperienceFile"] = file
}

func (m *Mapper) rebuildAddress(form map[string]any, storage map[string]any) {
	addr := make(map[string]any)
	if street, ok := storage[fieldStreet]; ok {
		addr["street"] = street
	}
	if city, ok := storage[fieldCity]; ok {
		addr["city"] = city
	}
	if postcode, ok := storage[fieldPostcode]; ok {
		addr["postcode"] = postcode
	}
	if country, ok := storage[fieldCountry]; ok {
		addr["country"] = country
	}
	if len(addr) > 0 {
		form["address"] = addr
	}
}

func docTimestampColumns() map[string]bool {
	cols := make(map[string]bool, len(docFields)*3)
	for _, f := range docFields {
		cols[f.Generated] = true
		cols[f.Downloaded] = true
		cols[f.Updated] = true
	}
	return cols
}

func hasValue(storage map[string]any, col string) bool {
	v, ok := storage[col]
	return ok && !isBlank(v)
}
