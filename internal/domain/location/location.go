package location

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warehub/backend/internal/domain/shared"
)

// LocationType represents the level of a storage location in the warehouse tree
type LocationType string

const (
	LocationTypeWarehouse LocationType = "WAREHOUSE"
	LocationTypeZone      LocationType = "ZONE"
	LocationTypeAisle     LocationType = "AISLE"
	LocationTypeRack      LocationType = "RACK"
	LocationTypeBin       LocationType = "BIN"
)

// LocationStatus represents the operational status of a location
type LocationStatus string

const (
	LocationStatusAvailable LocationStatus = "AVAILABLE"
	LocationStatusOccupied  LocationStatus = "OCCUPIED"
	LocationStatusReserved  LocationStatus = "RESERVED"
	LocationStatusBlocked   LocationStatus = "BLOCKED"
)

const (
	barcodeMinLength = 8
	barcodeMaxLength = 20
)

// Coordinates pinpoints a location inside the physical warehouse layout
type Coordinates struct {
	Zone  string `json:"zone" gorm:"type:varchar(50)"`
	Aisle string `json:"aisle" gorm:"type:varchar(50)"`
	Rack  string `json:"rack" gorm:"type:varchar(50)"`
	Level string `json:"level" gorm:"type:varchar(50)"`
}

// Location represents a storage location in the warehouse hierarchy.
// It is the aggregate root for location operations. Locations form a tree
// rooted at a WAREHOUSE node; stock is physically assigned to BIN leaves.
type Location struct {
	shared.TenantAggregateRoot
	ParentLocationID *uuid.UUID      `gorm:"type:uuid;index"`
	Code             string          `gorm:"type:varchar(50);uniqueIndex:idx_location_tenant_code,priority:2,where:code <> ''"`
	Name             string          `gorm:"type:varchar(200)"`
	Barcode          string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_location_tenant_barcode,priority:2"`
	Type             LocationType    `gorm:"type:varchar(20);not null"`
	Coordinates      Coordinates     `gorm:"embedded;embeddedPrefix:coord_"`
	Status           LocationStatus  `gorm:"type:varchar(20);not null;default:'AVAILABLE'"`
	CurrentCapacity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxCapacity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // zero means untracked
	Description      string          `gorm:"type:text"`
	BlockReason      string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new location. The barcode is validated when provided
// and auto-generated otherwise. New locations start AVAILABLE with zero stock.
func NewLocation(tenantID uuid.UUID, locationType LocationType, parentID *uuid.UUID, code, name, barcode string, coordinates Coordinates, maxCapacity decimal.Decimal) (*Location, error) {
	if err := validateLocationType(locationType); err != nil {
		return nil, err
	}
	if locationType == LocationTypeWarehouse {
		if parentID != nil {
			return nil, shared.NewDomainError("INVALID_PARENT", "A warehouse cannot have a parent location")
		}
		if strings.TrimSpace(code) == "" {
			return nil, shared.NewDomainError("CODE_REQUIRED", "A warehouse requires a location code")
		}
	}
	if code != "" {
		if err := validateLocationCode(code); err != nil {
			return nil, err
		}
	}
	if barcode != "" {
		if err := ValidateBarcode(barcode); err != nil {
			return nil, err
		}
	} else {
		barcode = GenerateBarcode()
	}
	if maxCapacity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Maximum capacity cannot be negative")
	}

	loc := &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ParentLocationID:    parentID,
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                name,
		Barcode:             barcode,
		Type:                locationType,
		Coordinates:         coordinates,
		Status:              LocationStatusAvailable,
		CurrentCapacity:     decimal.Zero,
		MaxCapacity:         maxCapacity,
	}

	loc.AddDomainEvent(NewLocationCreatedEvent(loc))

	return loc, nil
}

// IsBin returns true if the location is a BIN leaf
func (l *Location) IsBin() bool {
	return l.Type == LocationTypeBin
}

// IsRoot returns true if the location is a hierarchy root
func (l *Location) IsRoot() bool {
	return l.ParentLocationID == nil || l.Type == LocationTypeWarehouse
}

// Label returns the identifier used in hierarchy paths: code when present,
// barcode otherwise.
func (l *Location) Label() string {
	if l.Code != "" {
		return l.Code
	}
	return l.Barcode
}

// RemainingCapacity returns the capacity still available for stock. Untracked
// locations (MaxCapacity zero) report zero remaining capacity; placement
// treats them as unbounded instead, see CanAccommodate and the FEFO service.
func (l *Location) RemainingCapacity() decimal.Decimal {
	if l.MaxCapacity.IsZero() {
		return decimal.Zero
	}
	return l.MaxCapacity.Sub(l.CurrentCapacity)
}

// CanAccommodate returns true if the location has room for the given quantity
func (l *Location) CanAccommodate(quantity decimal.Decimal) bool {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return false
	}
	if l.MaxCapacity.IsZero() {
		return true
	}
	return l.CurrentCapacity.Add(quantity).LessThanOrEqual(l.MaxCapacity)
}

// UpdateStatus performs an operator-initiated status transition by routing
// to the specific operation for the target status. OCCUPIED is never a valid
// target here: it is entered and left through assignStock/releaseStock.
func (l *Location) UpdateStatus(newStatus LocationStatus, reason string) error {
	if err := validateLocationStatus(newStatus); err != nil {
		return err
	}
	if l.Status == newStatus {
		return shared.NewDomainError("INVALID_STATE", "Location is already in status "+string(newStatus))
	}

	switch newStatus {
	case LocationStatusBlocked:
		return l.Block(reason)
	case LocationStatusReserved:
		return l.Reserve()
	case LocationStatusAvailable:
		switch l.Status {
		case LocationStatusBlocked:
			return l.Unblock()
		case LocationStatusReserved:
			return l.Release()
		default:
			return shared.NewDomainError("INVALID_TRANSITION", "Cannot transition location from "+string(l.Status)+" to "+string(newStatus))
		}
	default:
		return shared.NewDomainError("INVALID_TRANSITION", "OCCUPIED is entered by stock assignment, not by a status update")
	}
}

// Block blocks the location for operational use. A non-empty reason is required.
func (l *Location) Block(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Blocking a location requires a reason")
	}
	if l.Status == LocationStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Location is already blocked")
	}
	l.applyStatus(LocationStatusBlocked, reason)
	return nil
}

// Unblock lifts a block. The location returns to AVAILABLE regardless of
// residual stock; the next assignStock flips it back to OCCUPIED.
func (l *Location) Unblock() error {
	if l.Status != LocationStatusBlocked {
		return shared.NewDomainError("INVALID_STATE", "Location is not blocked")
	}
	l.applyStatus(LocationStatusAvailable, "")
	return nil
}

// Reserve marks an AVAILABLE location as held for incoming stock
func (l *Location) Reserve() error {
	if l.Status != LocationStatusAvailable {
		return shared.NewDomainError("INVALID_TRANSITION", "Only an available location can be reserved")
	}
	l.applyStatus(LocationStatusReserved, "")
	return nil
}

// Release lifts a reservation, returning the location to AVAILABLE
func (l *Location) Release() error {
	if l.Status != LocationStatusReserved {
		return shared.NewDomainError("INVALID_TRANSITION", "Only a reserved location can be released")
	}
	l.applyStatus(LocationStatusAvailable, "")
	return nil
}

// AssignStock places a stock quantity at this location. Only BIN locations
// accept stock; capacity is enforced when a maximum is configured. The
// location becomes OCCUPIED once it holds anything.
func (l *Location) AssignStock(stockItemID uuid.UUID, quantity decimal.Decimal) error {
	if !l.IsBin() {
		return shared.NewDomainError("NOT_A_BIN", "Stock can only be assigned to BIN locations")
	}
	if stockItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_STOCK_ITEM", "Stock item ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if l.Status == LocationStatusBlocked {
		return shared.NewDomainError("LOCATION_BLOCKED", "Cannot assign stock to a blocked location")
	}
	if !l.CanAccommodate(quantity) {
		return shared.NewDomainError("CAPACITY_EXCEEDED", "Location capacity would be exceeded")
	}

	oldStatus := l.Status
	l.CurrentCapacity = l.CurrentCapacity.Add(quantity)
	if l.Status != LocationStatusOccupied {
		l.Status = LocationStatusOccupied
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationAssignedEvent(l, stockItemID, quantity))
	if oldStatus != l.Status {
		l.AddDomainEvent(NewLocationStatusChangedEvent(l, oldStatus, l.Status, ""))
	}

	return nil
}

// ReleaseStock removes a stock quantity from this location. Releasing the
// last unit returns the location to AVAILABLE unless it is BLOCKED, which
// stays sticky until an explicit unblock.
func (l *Location) ReleaseStock(stockItemID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(l.CurrentCapacity) {
		return shared.NewDomainError("QUANTITY_UNDERFLOW", "Cannot release more stock than the location holds")
	}

	oldStatus := l.Status
	l.CurrentCapacity = l.CurrentCapacity.Sub(quantity)
	if l.CurrentCapacity.IsZero() && l.Status == LocationStatusOccupied {
		l.Status = LocationStatusAvailable
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationReleasedEvent(l, stockItemID, quantity))
	if oldStatus != l.Status {
		l.AddDomainEvent(NewLocationStatusChangedEvent(l, oldStatus, l.Status, ""))
	}

	return nil
}

// UpdateDetails updates the descriptive fields of the location
func (l *Location) UpdateDetails(name, description string) error {
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	l.Name = name
	l.Description = description
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// applyStatus records a status change and emits the transition event
func (l *Location) applyStatus(newStatus LocationStatus, reason string) {
	oldStatus := l.Status
	l.Status = newStatus
	if newStatus == LocationStatusBlocked {
		l.BlockReason = reason
	} else {
		l.BlockReason = ""
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	l.AddDomainEvent(NewLocationStatusChangedEvent(l, oldStatus, newStatus, reason))
}

// ValidateBarcode checks the barcode policy: 8-20 uppercase alphanumerics
func ValidateBarcode(barcode string) error {
	if len(barcode) < barcodeMinLength || len(barcode) > barcodeMaxLength {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode must be between 8 and 20 characters")
	}
	for _, r := range barcode {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return shared.NewDomainError("INVALID_BARCODE", "Barcode must contain only uppercase letters and digits")
		}
	}
	return nil
}

const barcodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBarcode produces a random barcode satisfying the barcode policy.
// Ambiguous characters (0/O, 1/I) are excluded for scanner friendliness.
func GenerateBarcode() string {
	var b strings.Builder
	b.WriteString("LOC")
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(barcodeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to a time-derived index rather than panic
			b.WriteByte(barcodeAlphabet[time.Now().UnixNano()%int64(len(barcodeAlphabet))])
			continue
		}
		b.WriteByte(barcodeAlphabet[n.Int64()])
	}
	return b.String()
}

// Validation functions

func validateLocationType(t LocationType) error {
	switch t {
	case LocationTypeWarehouse, LocationTypeZone, LocationTypeAisle, LocationTypeRack, LocationTypeBin:
		return nil
	default:
		return shared.NewDomainError("INVALID_TYPE", "Invalid location type")
	}
}

func validateLocationStatus(s LocationStatus) error {
	switch s {
	case LocationStatusAvailable, LocationStatusOccupied, LocationStatusReserved, LocationStatusBlocked:
		return nil
	default:
		return shared.NewDomainError("INVALID_STATUS", "Invalid location status")
	}
}

func validateLocationCode(code string) error {
	code = strings.TrimSpace(code)
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Location code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Location code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
