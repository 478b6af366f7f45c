package dataset

import "time"

// Observation is a single measurement of one signal from one SV.
type Observation struct {
	Time   time.Time `json:"epoch" yaml:"epoch"`
	SV     string    `json:"sv" yaml:"sv"`
	Signal string    `json:"signal" yaml:"signal"`
	Value  float64   `json:"value" yaml:"value"`
}

// Epoch implements Record.
func (o Observation) Epoch() time.Time { return o.Time }

// Observations is the series type read and written by the store.
type Observations = Series[Observation]
