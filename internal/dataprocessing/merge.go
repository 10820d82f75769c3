package dataprocessing

import (
	"sort"
	"time"

	"attendcli/pkg/contracts/domain"
)

// dateKeyFormat keys groups by calendar date.
const dateKeyFormat = "2006-01-02"

// siteObservation tracks one candidate job site inside a group: how often
// it was seen and the earliest event timestamp that carried it. Using the
// event timestamp (not file order) keeps the modal tie-break independent of
// load order.
type siteObservation struct {
	count    int
	earliest time.Time
}

// dayAccumulator collects the order-independent reductions for one
// (driver, date) group: min, max, mode and sum only.
type dayAccumulator struct {
	driver        domain.DriverKey
	date          time.Time
	firstSeen     *time.Time
	lastSeen      *time.Time
	sites         map[string]*siteObservation
	explicitHours float64
	hoursExplicit bool
	eventCount    int
}

// Merge groups the union of all loaded events by (driver, calendar date)
// and builds one DriverDay per group. The result is identical for every
// permutation of the input: grouping uses only order-independent
// reductions, and the returned slice is sorted by driver then date.
func Merge(events []domain.CanonicalEvent) []domain.DriverDay {
	if len(events) == 0 {
		return nil
	}

	index := newIdentityIndex(events)

	groups := make(map[string]*dayAccumulator)
	for _, event := range events {
		key := index.groupKey(event.Driver) + "|" + event.Date().Format(dateKeyFormat)
		acc, ok := groups[key]
		if !ok {
			acc = &dayAccumulator{
				driver: index.canonical(event.Driver),
				date:   event.Date(),
				sites:  make(map[string]*siteObservation),
			}
			groups[key] = acc
		}
		acc.observe(event)
	}

	days := make([]domain.DriverDay, 0, len(groups))
	for _, acc := range groups {
		days = append(days, acc.build())
	}

	sort.Slice(days, func(i, j int) bool {
		if di, dj := days[i].Driver.String(), days[j].Driver.String(); di != dj {
			return di < dj
		}
		return days[i].Date.Before(days[j].Date)
	})

	return days
}

// observe folds one event into the group.
func (a *dayAccumulator) observe(event domain.CanonicalEvent) {
	a.eventCount++

	// First/last-seen only consider direct presence observations.
	if event.Kind == domain.EventLocation || event.Kind == domain.EventActivity {
		ts := event.Timestamp
		if a.firstSeen == nil || ts.Before(*a.firstSeen) {
			a.firstSeen = &ts
		}
		if a.lastSeen == nil || ts.After(*a.lastSeen) {
			a.lastSeen = &ts
		}
	}

	if event.JobSite != "" {
		obs, ok := a.sites[event.JobSite]
		if !ok {
			obs = &siteObservation{earliest: event.Timestamp}
			a.sites[event.JobSite] = obs
		}
		obs.count++
		if event.Timestamp.Before(obs.earliest) {
			obs.earliest = event.Timestamp
		}
	}

	if event.Kind == domain.EventTimeOnSite {
		// Several summary rows for one day are rare but possible when a
		// driver visits more than one site; the largest stint wins.
		if !a.hoursExplicit || event.HoursOnSite > a.explicitHours {
			a.explicitHours = event.HoursOnSite
			a.hoursExplicit = true
		}
	}
}

// build finalizes the group into an immutable DriverDay.
func (a *dayAccumulator) build() domain.DriverDay {
	day := domain.DriverDay{
		Driver:     a.driver,
		Date:       a.date,
		FirstSeen:  a.firstSeen,
		LastSeen:   a.lastSeen,
		JobSite:    a.modalSite(),
		EventCount: a.eventCount,
	}

	switch {
	case a.hoursExplicit:
		day.HoursOnSite = a.explicitHours
		day.HoursExplicit = true
	case a.firstSeen != nil && a.lastSeen != nil:
		day.HoursOnSite = a.lastSeen.Sub(*a.firstSeen).Hours()
	}

	return day
}

// modalSite returns the most frequently observed non-empty job site, ties
// broken by the earliest observation timestamp, then by name so the result
// is fully deterministic.
func (a *dayAccumulator) modalSite() string {
	var best string
	var bestObs *siteObservation
	for site, obs := range a.sites {
		if bestObs == nil {
			best, bestObs = site, obs
			continue
		}
		switch {
		case obs.count > bestObs.count:
			best, bestObs = site, obs
		case obs.count == bestObs.count && obs.earliest.Before(bestObs.earliest):
			best, bestObs = site, obs
		case obs.count == bestObs.count && obs.earliest.Equal(bestObs.earliest) && site < best:
			best, bestObs = site, obs
		}
	}
	return best
}

// identityIndex unifies DriverKey spellings across sources. A key with an
// employee ID always groups by ID; a name-only key joins an ID group when
// any event in the batch linked that name to an ID, otherwise it groups by
// normalized name.
type identityIndex struct {
	idByName   map[string]string
	displayFor map[string]domain.DriverKey
}

func newIdentityIndex(events []domain.CanonicalEvent) *identityIndex {
	idx := &identityIndex{
		idByName:   make(map[string]string),
		displayFor: make(map[string]domain.DriverKey),
	}

	for _, event := range events {
		key := event.Driver
		if key.EmployeeID == "" {
			continue
		}
		name := key.NameKey()
		// Deterministic under permutation: smallest ID wins a conflicting
		// name-to-ID link.
		if existing, ok := idx.idByName[name]; !ok || key.EmployeeID < existing {
			idx.idByName[name] = key.EmployeeID
		}
	}

	for _, event := range events {
		group := idx.groupKey(event.Driver)
		current, ok := idx.displayFor[group]
		if !ok || betterDisplay(event.Driver, current) {
			idx.displayFor[group] = event.Driver
		}
	}

	return idx
}

// groupKey returns the canonical grouping key for a driver key.
func (idx *identityIndex) groupKey(key domain.DriverKey) string {
	if key.EmployeeID != "" {
		return "id:" + key.EmployeeID
	}
	if id, ok := idx.idByName[key.NameKey()]; ok {
		return "id:" + id
	}
	return "name:" + key.NameKey()
}

// canonical returns the representative DriverKey for the driver's group.
func (idx *identityIndex) canonical(key domain.DriverKey) domain.DriverKey {
	rep, ok := idx.displayFor[idx.groupKey(key)]
	if !ok {
		return key
	}
	return rep
}

// betterDisplay prefers keys that carry an employee ID, then longer
// display names, then lexicographic order. Order-independent by
// construction.
func betterDisplay(candidate, current domain.DriverKey) bool {
	if (candidate.EmployeeID != "") != (current.EmployeeID != "") {
		return candidate.EmployeeID != ""
	}
	cn, xn := candidate.DisplayName, current.DisplayName
	if len(cn) != len(xn) {
		return len(cn) > len(xn)
	}
	return cn < xn
}
