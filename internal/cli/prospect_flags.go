package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/prospect-tracker/internal/prospect"
)

// prospectFlags binds the prospect fields shared by add and update.
type prospectFlags struct {
	name          string
	businessType  string
	location      string
	presence      string
	phone         string
	email         string
	listingURL    string
	years         int64
	status        string
	notes         string
	lastContacted string
	followup      string
}

func (f *prospectFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "business name")
	fl.StringVar(&f.businessType, "type", "", "business type, e.g. Plumber")
	fl.StringVar(&f.location, "location", "", "location, e.g. \"Austin, TX\"")
	fl.StringVar(&f.presence, "presence", "", fmt.Sprintf("current web presence (%s)", strings.Join(prospect.WebPresenceOptions, ", ")))
	fl.StringVar(&f.phone, "phone", "", "phone number")
	fl.StringVar(&f.email, "email", "", "email address")
	fl.StringVar(&f.listingURL, "url", "", "listing URL")
	fl.Int64Var(&f.years, "years", 0, "years in business")
	fl.StringVar(&f.status, "status", "", "pipeline status")
	fl.StringVar(&f.notes, "notes", "", "free-form notes")
	fl.StringVar(&f.lastContacted, "last-contacted", "", "last contact date (YYYY-MM-DD)")
	fl.StringVar(&f.followup, "followup", "", "next follow-up date (YYYY-MM-DD)")
}

// newProspect builds a create request from the flags that were set.
func (f *prospectFlags) newProspect(cmd *cobra.Command) prospect.NewProspect {
	changed := cmd.Flags().Changed
	opt := func(flag, v string) *string {
		if !changed(flag) {
			return nil
		}
		return &v
	}

	n := prospect.NewProspect{
		BusinessName:       f.name,
		BusinessType:       f.businessType,
		Location:           f.location,
		CurrentWebPresence: f.presence,
		Status:             prospect.Status(f.status),
		Phone:              opt("phone", f.phone),
		Email:              opt("email", f.email),
		ListingURL:         opt("url", f.listingURL),
		Notes:              opt("notes", f.notes),
		LastContacted:      opt("last-contacted", f.lastContacted),
		NextFollowup:       opt("followup", f.followup),
	}
	if changed("years") {
		years := f.years
		n.YearsInBusiness = &years
	}
	return n
}

// clearable maps --clear names to the nullable patch slots.
var clearable = map[string]func(*prospect.Patch){
	"phone":          func(p *prospect.Patch) { p.Phone = prospect.Null[string]() },
	"email":          func(p *prospect.Patch) { p.Email = prospect.Null[string]() },
	"url":            func(p *prospect.Patch) { p.ListingURL = prospect.Null[string]() },
	"years":          func(p *prospect.Patch) { p.YearsInBusiness = prospect.Null[int64]() },
	"notes":          func(p *prospect.Patch) { p.Notes = prospect.Null[string]() },
	"last-contacted": func(p *prospect.Patch) { p.LastContacted = prospect.Null[string]() },
	"followup":       func(p *prospect.Patch) { p.NextFollowup = prospect.Null[string]() },
}

func clearableNames() string {
	names := make([]string, 0, len(clearable))
	for name := range clearable {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// patch builds a partial update from the flags that were set, then clears
// the named fields.
func (f *prospectFlags) patch(cmd *cobra.Command, clear []string) (prospect.Patch, error) {
	changed := cmd.Flags().Changed
	var p prospect.Patch

	str := func(flag, v string) *string {
		if !changed(flag) {
			return nil
		}
		return &v
	}
	nullable := func(flag, v string) prospect.Nullable[string] {
		if !changed(flag) {
			return prospect.Nullable[string]{}
		}
		return prospect.Value(v)
	}

	p.BusinessName = str("name", f.name)
	p.BusinessType = str("type", f.businessType)
	p.Location = str("location", f.location)
	p.CurrentWebPresence = str("presence", f.presence)
	if changed("status") {
		s := prospect.Status(f.status)
		p.Status = &s
	}
	p.Phone = nullable("phone", f.phone)
	p.Email = nullable("email", f.email)
	p.ListingURL = nullable("url", f.listingURL)
	p.Notes = nullable("notes", f.notes)
	p.LastContacted = nullable("last-contacted", f.lastContacted)
	p.NextFollowup = nullable("followup", f.followup)
	if changed("years") {
		p.YearsInBusiness = prospect.Value(f.years)
	}

	for _, name := range clear {
		apply, ok := clearable[name]
		if !ok {
			return prospect.Patch{}, fmt.Errorf("cannot clear %q (clearable: %s)", name, clearableNames())
		}
		if changed(name) {
			return prospect.Patch{}, fmt.Errorf("--%s and --clear %s conflict", name, name)
		}
		apply(&p)
	}

	return p, nil
}
