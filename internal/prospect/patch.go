package prospect

import (
	"encoding/json"
	"fmt"
)

// Nullable is a patch slot for a nullable column. Set reports whether the
// field was supplied at all; a supplied nil Value clears the column.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null returns a slot that clears the column.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Value returns a slot that sets the column to v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// UnmarshalJSON marks the slot as supplied. JSON null clears the value.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Patch is a partial update. Nil pointers and unset Nullable slots leave
// the stored value alone.
type Patch struct {
	BusinessName       *string          `json:"business_name"`
	BusinessType       *string          `json:"business_type"`
	Location           *string          `json:"location"`
	Phone              Nullable[string] `json:"phone"`
	Email              Nullable[string] `json:"email"`
	CurrentWebPresence *string          `json:"current_web_presence"`
	ListingURL         Nullable[string] `json:"listing_url"`
	YearsInBusiness    Nullable[int64]  `json:"years_in_business"`
	Status             *Status          `json:"status"`
	Notes              Nullable[string] `json:"notes"`
	LastContacted      Nullable[string] `json:"last_contacted"`
	NextFollowup       Nullable[string] `json:"next_followup"`
}

// IsEmpty reports whether the patch supplies no fields.
func (p Patch) IsEmpty() bool {
	return p.BusinessName == nil &&
		p.BusinessType == nil &&
		p.Location == nil &&
		!p.Phone.Set &&
		!p.Email.Set &&
		p.CurrentWebPresence == nil &&
		!p.ListingURL.Set &&
		!p.YearsInBusiness.Set &&
		p.Status == nil &&
		!p.Notes.Set &&
		!p.LastContacted.Set &&
		!p.NextFollowup.Set
}

// MarshalJSON writes only the supplied fields, so a round trip through
// the API keeps absent fields absent.
func (p Patch) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{})
	if p.BusinessName != nil {
		m["business_name"] = *p.BusinessName
	}
	if p.BusinessType != nil {
		m["business_type"] = *p.BusinessType
	}
	if p.Location != nil {
		m["location"] = *p.Location
	}
	if p.CurrentWebPresence != nil {
		m["current_web_presence"] = *p.CurrentWebPresence
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	putNullable(m, "phone", p.Phone)
	putNullable(m, "email", p.Email)
	putNullable(m, "listing_url", p.ListingURL)
	putNullable(m, "years_in_business", p.YearsInBusiness)
	putNullable(m, "notes", p.Notes)
	putNullable(m, "last_contacted", p.LastContacted)
	putNullable(m, "next_followup", p.NextFollowup)
	return json.Marshal(m)
}

func putNullable[T any](m map[string]interface{}, key string, n Nullable[T]) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		m[key] = nil
		return
	}
	m[key] = *n.Value
}

func (p Patch) validate() error {
	if p.Status != nil && !p.Status.IsValid() {
		return invalidStatus(*p.Status)
	}
	if y := p.YearsInBusiness.Value; y != nil && *y < 0 {
		return &ValidationError{Field: "years_in_business", Message: "must not be negative"}
	}
	return nil
}

// apply merges the supplied fields onto a copy of cur.
func (p Patch) apply(cur Prospect) Prospect {
	next := cur
	mergeValue(&next.BusinessName, p.BusinessName)
	mergeValue(&next.BusinessType, p.BusinessType)
	mergeValue(&next.Location, p.Location)
	mergeValue(&next.CurrentWebPresence, p.CurrentWebPresence)
	mergeValue(&next.Status, p.Status)
	mergeNullable(&next.Phone, p.Phone)
	mergeNullable(&next.Email, p.Email)
	mergeNullable(&next.ListingURL, p.ListingURL)
	mergeNullable(&next.YearsInBusiness, p.YearsInBusiness)
	mergeNullable(&next.Notes, p.Notes)
	mergeNullable(&next.LastContacted, p.LastContacted)
	mergeNullable(&next.NextFollowup, p.NextFollowup)
	return next
}

func mergeValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func mergeNullable[T any](dst **T, n Nullable[T]) {
	if n.Set {
		*dst = n.Value
	}
}

// String describes which fields the patch touches, for logging.
func (p Patch) String() string {
	data, err := p.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("patch(%v)", err)
	}
	return string(data)
}
