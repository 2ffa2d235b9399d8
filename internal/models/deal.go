package models

import "time"

// Deal is one sales opportunity as stored by the deal repository.
type Deal struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	DealValue         float64    `json:"deal_value"`
	Probability       int        `json:"probability"`
	Stage             Stage      `json:"stage"`
	OwnerID           *string    `json:"owner_id,omitempty"`
	ServiceType       *string    `json:"service_type,omitempty"`
	Source            *string    `json:"source,omitempty"`
	Notes             string     `json:"notes"`
	LeadID            *string    `json:"lead_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	WonDate           *time.Time `json:"won_date,omitempty"`
	LostDate          *time.Time `json:"lost_date,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time `json:"actual_close_date,omitempty"`
}

// DealUpdate is a partial set of deal fields. Nil means "leave as is".
type DealUpdate struct {
	Name              *string    `json:"name,omitempty"`
	DealValue         *float64   `json:"deal_value,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	Stage             *Stage     `json:"stage,omitempty"`
	OwnerID           *string    `json:"owner_id,omitempty"`
	ServiceType       *string    `json:"service_type,omitempty"`
	Source            *string    `json:"source,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
	LeadID            *string    `json:"lead_id,omitempty"`
	WonDate           *time.Time `json:"won_date,omitempty"`
	LostDate          *time.Time `json:"lost_date,omitempty"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	ActualCloseDate   *time.Time `json:"actual_close_date,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u DealUpdate) IsEmpty() bool {
	return u == DealUpdate{}
}

// Merge returns u with every field set in other copied over it.
func (u DealUpdate) Merge(other DealUpdate) DealUpdate {
	if other.Name != nil {
		u.Name = other.Name
	}
	if other.DealValue != nil {
		u.DealValue = other.DealValue
	}
	if other.Probability != nil {
		u.Probability = other.Probability
	}
	if other.Stage != nil {
		u.Stage = other.Stage
	}
	if other.OwnerID != nil {
		u.OwnerID = other.OwnerID
	}
	if other.ServiceType != nil {
		u.ServiceType = other.ServiceType
	}
	if other.Source != nil {
		u.Source = other.Source
	}
	if other.Notes != nil {
		u.Notes = other.Notes
	}
	if other.LeadID != nil {
		u.LeadID = other.LeadID
	}
	if other.WonDate != nil {
		u.WonDate = other.WonDate
	}
	if other.LostDate != nil {
		u.LostDate = other.LostDate
	}
	if other.ExpectedCloseDate != nil {
		u.ExpectedCloseDate = other.ExpectedCloseDate
	}
	if other.ActualCloseDate != nil {
		u.ActualCloseDate = other.ActualCloseDate
	}
	return u
}

// Apply writes the set fields of u onto d.
func (u DealUpdate) Apply(d *Deal) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.DealValue != nil {
		d.DealValue = *u.DealValue
	}
	if u.Probability != nil {
		d.Probability = *u.Probability
	}
	if u.Stage != nil {
		d.Stage = *u.Stage
	}
	if u.OwnerID != nil {
		d.OwnerID = u.OwnerID
	}
	if u.ServiceType != nil {
		d.ServiceType = u.ServiceType
	}
	if u.Source != nil {
		d.Source = u.Source
	}
	if u.Notes != nil {
		d.Notes = *u.Notes
	}
	if u.LeadID != nil {
		d.LeadID = u.LeadID
	}
	if u.WonDate != nil {
		d.WonDate = u.WonDate
	}
	if u.LostDate != nil {
		d.LostDate = u.LostDate
	}
	if u.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = u.ExpectedCloseDate
	}
	if u.ActualCloseDate != nil {
		d.ActualCloseDate = u.ActualCloseDate
	}
}
