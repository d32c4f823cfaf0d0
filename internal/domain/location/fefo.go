package location

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssignmentRequest is one stock item awaiting placement. Expired items are
// excluded from assignment; the expiration check is done against the "today"
// passed to the service so results are reproducible.
type AssignmentRequest struct {
	StockItemID    uuid.UUID
	Quantity       decimal.Decimal
	ExpirationDate *time.Time
}

// Assignment maps one request to the bin it was placed in
type Assignment struct {
	StockItemID uuid.UUID
	LocationID  uuid.UUID
	Quantity    decimal.Decimal
}

// AssignmentResult is the outcome of one FEFO run. Requests that fit no bin
// land in Unassigned; expired and non-positive-quantity requests land in
// Excluded. A partial result is normal, not an error.
type AssignmentResult struct {
	Assignments   []Assignment            // in assignment order, earliest expiry first
	Assigned      map[uuid.UUID]uuid.UUID // stock item ID -> location ID
	Unassigned    []uuid.UUID
	Excluded      []uuid.UUID
	FullyAssigned bool
}

// FEFOAssignmentService matches stock awaiting placement to BIN locations,
// placing the stock closest to expiry first. It is a pure function of its
// inputs plus "today": no repository access, and candidate locations are
// never mutated. Callers apply the returned assignments to the aggregates.
type FEFOAssignmentService struct{}

// NewFEFOAssignmentService creates a new FEFOAssignmentService
func NewFEFOAssignmentService() *FEFOAssignmentService {
	return &FEFOAssignmentService{}
}

// binState tracks the working remaining capacity of one candidate bin so the
// input locations stay untouched. Bins without a tracked maximum capacity are
// flagged unbounded: they fit any quantity and never deplete.
type binState struct {
	locationID uuid.UUID
	barcode    string
	remaining  decimal.Decimal
	unbounded  bool
}

// AssignLocations runs the FEFO placement:
//  1. Candidates are narrowed to BINs with status AVAILABLE or RESERVED and
//     remaining capacity > 0. Bins with no tracked maximum capacity count as
//     unbounded and always qualify.
//  2. Requests are sorted by expiration date ascending with nil dates last;
//     ties keep their submission order.
//  3. Bins are sorted by remaining capacity descending, barcode ascending;
//     unbounded bins sort ahead of any tracked bin.
//  4. Each request takes the first bin whose working capacity fits its full
//     quantity; that bin's working capacity is reduced for later requests.
//     Unbounded bins fit every quantity and are never reduced.
func (s *FEFOAssignmentService) AssignLocations(requests []AssignmentRequest, candidates []*Location, today time.Time) *AssignmentResult {
	result := &AssignmentResult{
		Assignments: make([]Assignment, 0, len(requests)),
		Assigned:    make(map[uuid.UUID]uuid.UUID, len(requests)),
		Unassigned:  make([]uuid.UUID, 0),
		Excluded:    make([]uuid.UUID, 0),
	}

	bins := make([]binState, 0, len(candidates))
	for _, loc := range candidates {
		if loc == nil || loc.Type != LocationTypeBin {
			continue
		}
		if loc.Status != LocationStatusAvailable && loc.Status != LocationStatusReserved {
			continue
		}
		unbounded := loc.MaxCapacity.IsZero()
		remaining := loc.RemainingCapacity()
		if !unbounded && remaining.LessThanOrEqual(decimal.Zero) {
			continue
		}
		bins = append(bins, binState{
			locationID: loc.ID,
			barcode:    loc.Barcode,
			remaining:  remaining,
			unbounded:  unbounded,
		})
	}

	sort.Slice(bins, func(i, j int) bool {
		if bins[i].unbounded != bins[j].unbounded {
			return bins[i].unbounded
		}
		if !bins[i].remaining.Equal(bins[j].remaining) {
			return bins[i].remaining.GreaterThan(bins[j].remaining)
		}
		return bins[i].barcode < bins[j].barcode
	})

	ordered := make([]AssignmentRequest, len(requests))
	copy(ordered, requests)
	sort.SliceStable(ordered, func(i, j int) bool {
		// Earliest expiry first; requests without an expiration date go last.
		// Stability keeps submission order for equal dates.
		if ordered[i].ExpirationDate != nil && ordered[j].ExpirationDate != nil {
			return ordered[i].ExpirationDate.Before(*ordered[j].ExpirationDate)
		}
		return ordered[i].ExpirationDate != nil && ordered[j].ExpirationDate == nil
	})

	fully := true
	for _, req := range ordered {
		if req.Quantity.LessThanOrEqual(decimal.Zero) || expiredBy(req.ExpirationDate, today) {
			result.Excluded = append(result.Excluded, req.StockItemID)
			continue
		}

		placed := false
		for i := range bins {
			if bins[i].unbounded || bins[i].remaining.GreaterThanOrEqual(req.Quantity) {
				if !bins[i].unbounded {
					bins[i].remaining = bins[i].remaining.Sub(req.Quantity)
				}
				result.Assignments = append(result.Assignments, Assignment{
					StockItemID: req.StockItemID,
					LocationID:  bins[i].locationID,
					Quantity:    req.Quantity,
				})
				result.Assigned[req.StockItemID] = bins[i].locationID
				placed = true
				break
			}
		}
		if !placed {
			result.Unassigned = append(result.Unassigned, req.StockItemID)
			fully = false
		}
	}

	result.FullyAssigned = fully
	return result
}

// expiredBy reports whether the date falls on a day before "today".
// Comparison is on UTC date components so time-of-day never matters.
func expiredBy(date *time.Time, today time.Time) bool {
	if date == nil {
		return false
	}
	dy, dm, dd := date.UTC().Date()
	ty, tm, td := today.UTC().Date()
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return d.Before(t)
}
