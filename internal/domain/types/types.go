// Package types contains the outward views shared by the service and the HTTP API.
package types

import "github.com/okian/sinfonia/internal/domain/contract"

// Contract is one hire as seen outside the domain.
type Contract struct {
	ID        string  `json:"id"`
	Performer string  `json:"performer"`
	Song      string  `json:"song"`
	Role      string  `json:"role"`
	Price     float64 `json:"price"`
}

// HiredContract adds the performer's distinct-song count to a contract.
type HiredContract struct {
	Contract
	SongsAssigned int `json:"songs_assigned"`
}

// Hired lists every contract of a session and the total cost.
type Hired struct {
	Contracts []HiredContract `json:"contracts"`
	TotalCost float64         `json:"total_cost"`
}

// ShowResult summarizes a whole-show hire.
type ShowResult struct {
	Processed int        `json:"processed"`
	Failed    int        `json:"failed"`
	Skipped   int        `json:"skipped"`
	Spent     float64    `json:"spent"`
	Hired     []Contract `json:"hired"`
	Failures  []string   `json:"failures,omitempty"`
}

// TrainingEstimate is the minimum-training answer for a session.
type TrainingEstimate struct {
	Trainings int     `json:"trainings"`
	UnitCost  float64 `json:"unit_cost"`
	Cost      float64 `json:"cost"`
}

// FromContract builds the view of k.
func FromContract(k *contract.Contract) Contract {
	return Contract{
		ID:        k.ID(),
		Performer: k.Performer().Name(),
		Song:      k.Song().Title(),
		Role:      k.Role(),
		Price:     k.Price(),
	}
}

// FromContracts builds views in order. The result is never nil.
func FromContracts(ks []*contract.Contract) []Contract {
	out := make([]Contract, 0, len(ks))
	for _, k := range ks {
		out = append(out, FromContract(k))
	}
	return out
}
